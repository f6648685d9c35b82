package catalog_test

import (
	"fmt"

	. "github.com/mandelsoft/scenecomponents/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-test/deep"

	me "github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/notation"
)

type Velocity struct {
	X, Y, Z float32
}

type Health struct {
	Hp int32
}

type Tags []string

type Marker struct{}

type Info struct {
	Name       string
	FrameStart float32
	Loop       *bool
	Weights    map[string]float64
	Pair       [2]int
	Extra      interface{}
	Renamed    string `scene:"alias"`
	Skipped    string `scene:"-"`
}

type Level int

func (l *Level) UnmarshalNotation(v *notation.Value) error {
	switch v.AsString() {
	case "Low":
		*l = 1
	case "High":
		*l = 2
	default:
		return fmt.Errorf("invalid level %q", v.AsString())
	}
	return nil
}

type Settings struct {
	Level Level
}

var _ = Describe("catalog", func() {
	var c *me.Catalog

	BeforeEach(func() {
		c = me.New()
		me.MustRegisterComponent[Velocity](c, "physics::Velocity")
		me.MustRegisterComponent[Health](c, "pkg::Health")
		me.MustRegisterComponent[Tags](c, "pkg::Tags")
		me.MustRegisterComponent[Marker](c, "pkg::Marker")
		me.MustRegisterComponent[Info](c, "pkg::Info")
		me.MustRegisterComponent[Settings](c, "pkg::Settings")
	})

	Context("registration", func() {
		It("derives short names", func() {
			Expect(me.ShortTypePath("physics::Velocity")).To(Equal("Velocity"))
			Expect(me.ShortTypePath(me.TypePathStringListMap)).To(Equal("HashMap<String, Vec<String>>"))
		})

		It("looks up", func() {
			d := Must(lookup(c.LookupShortName("Velocity")))
			Expect(d.TypePath()).To(Equal("physics::Velocity"))
			Expect(Must(lookup(c.LookupTypePath("physics::Velocity")))).To(BeIdenticalTo(d))
			Expect(Must(lookup(c.LookupType(d.Type())))).To(BeIdenticalTo(d))

			_, ok := c.LookupShortName("velocity")
			Expect(ok).To(BeFalse())
		})

		It("is idempotent for identical registrations", func() {
			d := Must(lookup(c.LookupTypePath("pkg::Health")))
			Expect(me.RegisterComponent[Health](c, "pkg::Health")).To(BeIdenticalTo(d))
		})

		It("rejects conflicting registrations", func() {
			_, err := me.Register[Health](c, "pkg::Health")
			Expect(err).To(HaveOccurred())
			_, err = me.RegisterComponent[Health](c, "other::Health")
			Expect(err).To(HaveOccurred())
			_, err = c.Register("x::Y", nil, false)
			Expect(err).To(HaveOccurred())
		})

		It("registers pointer prototypes", func() {
			type Other struct{ A int }
			d := Must(c.Register("x::Other", (*Other)(nil), true))
			Expect(d.Type().Name()).To(Equal("Other"))
		})

		It("does not resolve ambiguous short names", func() {
			type Health2 struct{}
			me.MustRegisterComponent[Health2](c, "other::Health")
			_, ok := c.LookupShortName("Health")
			Expect(ok).To(BeFalse())
			_, ok = c.LookupTypePath("other::Health")
			Expect(ok).To(BeTrue())
		})

		It("ensures well-known types", func() {
			MustBeSuccessful(c.EnsureRegistered())
			MustBeSuccessful(c.EnsureRegistered())
			Expect(c.TypeNames()).To(ContainElements(me.TypePathStringList, me.TypePathStringListMap))
			d := Must(lookup(c.LookupShortName("Vec<String>")))
			Expect(d.IsComponent()).To(BeFalse())
			Expect(c.Decode(d, `["a", "b"]`)).To(Equal([]string{"a", "b"}))
		})

		It("lists sorted names", func() {
			Expect(c.TypeNames()).To(Equal([]string{"physics::Velocity", "pkg::Health", "pkg::Info", "pkg::Marker", "pkg::Settings", "pkg::Tags"}))
			Expect(c.Descriptors()).To(HaveLen(6))
		})
	})

	Context("typed decoding", func() {
		var d *me.Descriptor

		It("decodes named structs", func() {
			d = Must(lookup(c.LookupShortName("Velocity")))
			Expect(c.Decode(d, "Velocity(x: 1.0, y: 0.0, z: 0.0)")).To(Equal(Velocity{1, 0, 0}))
		})
		It("decodes anonymous structs and maps", func() {
			d = Must(lookup(c.LookupShortName("Velocity")))
			Expect(c.Decode(d, "(x: 1.0, y: 2, z: 3)")).To(Equal(Velocity{1, 2, 3}))
			Expect(c.Decode(d, `Velocity({"x": 1.0, "y": 2, "z": 3})`)).To(Equal(Velocity{1, 2, 3}))
		})
		It("decodes tuples positionally", func() {
			d = Must(lookup(c.LookupShortName("Health")))
			Expect(c.Decode(d, "Health(10)")).To(Equal(Health{10}))
			Expect(c.Decode(d, "Health((hp: 11))")).To(Equal(Health{11}))
		})
		It("decodes new types", func() {
			d = Must(lookup(c.LookupShortName("Tags")))
			Expect(c.Decode(d, `Tags(["a", "b"])`)).To(Equal(Tags{"a", "b"}))
			Expect(c.Decode(d, `Tags("a", "b")`)).To(Equal(Tags{"a", "b"}))
		})
		It("decodes unit structs", func() {
			d = Must(lookup(c.LookupShortName("Marker")))
			Expect(c.Decode(d, `Marker`)).To(Equal(Marker{}))
			Expect(c.Decode(d, `Marker()`)).To(Equal(Marker{}))
		})
		It("decodes nested data", func() {
			d = Must(lookup(c.LookupShortName("Info")))
			o := Must(c.Decode(d, `Info(name: "walk", frame_start: 1.5, loop: Some(true), weights: {"a": 0.5}, pair: (1, 2), extra: [1, "x"], alias: "r")`))
			loop := true
			Expect(deep.Equal(o, Info{
				Name:       "walk",
				FrameStart: 1.5,
				Loop:       &loop,
				Weights:    map[string]float64{"a": 0.5},
				Pair:       [2]int{1, 2},
				Extra:      []interface{}{int64(1), "x"},
				Renamed:    "r",
			})).To(BeNil())
		})
		It("uses unmarshalers", func() {
			d = Must(lookup(c.LookupShortName("Settings")))
			Expect(c.Decode(d, `Settings(level: High)`)).To(Equal(Settings{Level: 2}))
			_, err := c.Decode(d, `Settings(level: Medium)`)
			Expect(err).To(MatchError(ContainSubstring(`level: invalid level "Medium"`)))
		})

		It("rejects mismatching constructors", func() {
			d = Must(lookup(c.LookupShortName("Health")))
			_, err := c.Decode(d, "Velocity(x: 1.0)")
			Expect(err).To(MatchError(ContainSubstring(`constructor "Velocity" does not match`)))
		})
		It("rejects unknown fields", func() {
			d = Must(lookup(c.LookupShortName("Velocity")))
			_, err := c.Decode(d, "Velocity(w: 1.0)")
			Expect(err).To(MatchError(ContainSubstring(`unknown field "w"`)))
		})
		It("rejects wrong value kinds", func() {
			d = Must(lookup(c.LookupShortName("Health")))
			_, err := c.Decode(d, `Health(hp: "ten")`)
			Expect(err).To(MatchError(ContainSubstring("hp: cannot use string as int32")))
		})
		It("rejects overflows", func() {
			d = Must(lookup(c.LookupShortName("Health")))
			_, err := c.Decode(d, `Health(hp: 99999999999)`)
			Expect(err).To(MatchError(ContainSubstring("invalid int32 value")))
		})
	})

	Context("untyped decoding", func() {
		It("decodes by type path", func() {
			o, d, err := c.DecodeUntyped(`{ "pkg::Health": (hp: 10) }`)
			MustBeSuccessful(err)
			Expect(d.TypePath()).To(Equal("pkg::Health"))
			Expect(o).To(Equal(Health{10}))
		})
		It("reports unknown types", func() {
			_, _, err := c.DecodeUntyped(`{ "pkg::Mana": (mp: 10) }`)
			Expect(err).To(MatchError(me.ErrUnknownType))
		})
		It("requires a single entry map", func() {
			_, _, err := c.DecodeUntyped(`{ "pkg::Health": (hp: 10), "pkg::Marker": () }`)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("encoding", func() {
		It("encodes canonical text", func() {
			d := Must(lookup(c.LookupShortName("Velocity")))
			Expect(c.Encode(d, Velocity{1, 0, 0.5})).To(Equal("(x:1.0,y:0.0,z:0.5)"))
			d = Must(lookup(c.LookupShortName("Health")))
			Expect(c.Encode(d, Health{10})).To(Equal("(hp:10)"))
			d = Must(lookup(c.LookupShortName("Marker")))
			Expect(c.Encode(d, Marker{})).To(Equal("()"))
			d = Must(lookup(c.LookupShortName("Tags")))
			Expect(c.Encode(d, Tags{"a", "b"})).To(Equal(`["a","b"]`))
		})

		It("orders map keys", func() {
			v := Must(me.EncodeValue(map[uint32]string{10: "b", 9: "a"}))
			Expect(v.String()).To(Equal(`{9:"a",10:"b"}`))
			v = Must(me.EncodeValue(map[string]int{"b": 1, "a": 2}))
			Expect(v.String()).To(Equal(`{"a":2,"b":1}`))
		})

		It("round trips", func() {
			d := Must(lookup(c.LookupShortName("Info")))
			loop := false
			info := Info{
				Name:       "walk",
				FrameStart: 0.1,
				Loop:       &loop,
				Weights:    map[string]float64{"a": 0.5, "b": 2},
				Pair:       [2]int{1, -2},
				Extra:      []interface{}{int64(1), "x"},
				Renamed:    "r",
			}
			text := Must(c.Encode(d, info))
			Expect(deep.Equal(Must(c.Decode(d, text)), info)).To(BeNil())

			info = Info{Name: "idle"}
			text = Must(c.Encode(d, info))
			Expect(deep.Equal(Must(c.Decode(d, text)), info)).To(BeNil())
		})

		It("rejects foreign instances", func() {
			d := Must(lookup(c.LookupShortName("Health")))
			_, err := c.Encode(d, Velocity{})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("insertion", func() {
		It("inserts components", func() {
			w := ecs.NewWorld()
			e := w.Spawn()
			d := Must(lookup(c.LookupShortName("Health")))
			MustBeSuccessful(d.Insert(w, e, Health{3}))
			h, ok := ecs.Get[Health](w, e)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(Health{3}))
		})
		It("rejects data types", func() {
			MustBeSuccessful(c.EnsureRegistered())
			w := ecs.NewWorld()
			e := w.Spawn()
			d := Must(lookup(c.LookupTypePath(me.TypePathStringList)))
			Expect(d.Insert(w, e, []string{"a"})).To(MatchError(me.ErrInsertionUnsupported))
		})
		It("rejects foreign instances", func() {
			w := ecs.NewWorld()
			e := w.Spawn()
			d := Must(lookup(c.LookupShortName("Health")))
			Expect(d.Insert(w, e, Velocity{})).To(HaveOccurred())
			Expect(d.Insert(w, e+1, Health{})).To(MatchError(ecs.ErrNoEntity))
		})
	})
})

func lookup(d *me.Descriptor, ok bool) (*me.Descriptor, error) {
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}
