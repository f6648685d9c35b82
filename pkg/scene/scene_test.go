package scene_test

import (
	. "github.com/mandelsoft/scenecomponents/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/scenecomponents/pkg/components"
	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/pipeline"
	me "github.com/mandelsoft/scenecomponents/pkg/scene"
)

func find(w *ecs.World, name string) ecs.Entity {
	for _, e := range w.Query(ecs.With[ecs.Name]()) {
		if ecs.NameOf(w, e) == name {
			return e
		}
	}
	Fail("entity " + name + " not found")
	return 0
}

var _ = Describe("scene", func() {
	var fs vfs.FileSystem

	BeforeEach(func() {
		fs = Must(TestFileSystem("testdata", false))
	})

	AfterEach(func() {
		vfs.Cleanup(fs)
	})

	It("loads and spawns a scene", func() {
		s := Must(me.Load(fs, "level.yaml"))
		Expect(s.Name).To(Equal("level"))
		Expect(s.Count()).To(Equal(4))

		w := ecs.NewWorld()
		root := s.Spawn(w)
		Expect(w.Entities()).To(HaveLen(5))
		Expect(ecs.NameOf(w, root)).To(Equal("level"))

		player := find(w, "player")
		parent, ok := ecs.ParentOf(w, player)
		Expect(ok).To(BeTrue())
		Expect(parent).To(Equal(root))
		Expect(ecs.Children(w, player)).To(Equal([]ecs.Entity{find(w, "player_components"), find(w, "mesh")}))
		Expect(ecs.Has[ecs.Extras](w, find(w, "mesh"))).To(BeFalse())
		Expect(w.Query(ecs.With[ecs.Extras]())).To(HaveLen(3))
	})

	It("substitutes variables", func() {
		s := Must(me.Load(fs, "level.yaml", me.WithVariables(map[string]string{"MATERIAL": "Wood"})))
		Expect(s.Nodes[1].Extras).To(ContainSubstring(`\"Wood\"`))

		s = Must(me.Load(fs, "level.yaml"))
		Expect(s.Nodes[1].Extras).To(ContainSubstring(`\"${MATERIAL}\"`))
	})

	It("keeps escapes of substituted extras", func() {
		nested := `{"x": "{\"k\": \"(n: \\\"walk\\\", m: \\\"${M}\\\")\"}"}`
		data := []byte("name: ${SCENE}\nnodes:\n- name: node_${M}\n  extras: '" + nested + "'\n")

		s := Must(me.Parse(data, me.WithVariables(map[string]string{"M": "Wood", "SCENE": "level"})))
		Expect(s.Name).To(Equal("level"))
		Expect(s.Nodes[0].Name).To(Equal("node_Wood"))
		Expect(s.Nodes[0].Extras).To(Equal(`{"x": "{\"k\": \"(n: \\\"walk\\\", m: \\\"Wood\\\")\"}"}`))

		plain := Must(me.Parse(data))
		Expect(plain.Nodes[0].Extras).To(Equal(nested))
	})

	It("materializes an imported scene", func() {
		s := Must(me.Load(fs, "level.yaml", me.WithVariables(map[string]string{"MATERIAL": "Wood"})))
		w := ecs.NewWorld()
		root := s.Spawn(w)

		c := Must(components.NewCatalog())
		r := Must(pipeline.New(c, w, pipeline.WithWorkers(2)).Sweep())
		Expect(r.Skipped).To(BeEmpty())
		Expect(r.Inserted).To(Equal(4))

		player := find(w, "player")
		Expect(w.Components(player)).To(ConsistOf(
			ecs.Name("player"),
			ecs.Parent{Entity: root},
			ecs.Extras{Value: s.Nodes[0].Extras},
			ecs.Processed{},
			components.BlueprintName("Player"),
			components.SpawnHere{},
			components.AnimationInfos{Animations: []components.AnimationInfo{
				{Name: "walk", FrameStart: 1, FrameEnd: 20, FramesLength: 19, FrameStartOverride: 1, FrameEndOverride: 20},
			}},
		))
		m, ok := ecs.Get[components.MaterialInfo](w, find(w, "floor"))
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal(components.MaterialInfo{Name: "Wood", Source: "materials_library.glb"}))
	})

	It("saves scenes", func() {
		mem := Must(MemoryFileSystem(nil))
		s := &me.Scene{
			Name: "generated",
			Nodes: []*me.Node{
				{Name: "a", Extras: `{"health": "(hp: 1)"}`, Children: []*me.Node{{Name: "b"}}},
			},
		}
		MustBeSuccessful(s.Save(mem, "scenes/generated.yaml"))
		Expect(Must(me.Load(mem, "scenes/generated.yaml"))).To(Equal(s))
	})

	Context("invalid", func() {
		It("rejects unnamed nodes", func() {
			_, err := me.Parse([]byte("name: x\nnodes:\n- extras: '{}'\n"))
			Expect(err).To(MatchError("nodes[0]: node name required"))
		})
		It("rejects unknown fields", func() {
			_, err := me.Parse([]byte("name: x\nitems: []\n"))
			Expect(err).To(HaveOccurred())
		})
	})
})
