package notation_test

import (
	. "github.com/mandelsoft/scenecomponents/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-test/deep"

	me "github.com/mandelsoft/scenecomponents/pkg/notation"
)

var _ = Describe("Notation", func() {
	Context("leafs", func() {
		It("string", func() {
			Expect(me.Parse(`"a \"b\"\n"`)).To(Equal(me.NewString("a \"b\"\n")))
		})
		It("unicode escapes", func() {
			Expect(me.Parse(`"é\u{1F600}"`)).To(Equal(me.NewString("é😀")))
		})
		It("char", func() {
			Expect(me.Parse(`'x'`)).To(Equal(me.NewString("x")))
		})
		It("integer", func() {
			Expect(me.Parse("-12")).To(Equal(me.NewNumber("-12")))
		})
		It("float", func() {
			Expect(me.Parse(" 1.5e-3 ")).To(Equal(me.NewNumber("1.5e-3")))
		})
		It("bool", func() {
			Expect(me.Parse("true")).To(Equal(me.NewBool(true)))
			Expect(me.Parse("false")).To(Equal(me.NewBool(false)))
		})
		It("unit", func() {
			Expect(me.Parse("()")).To(Equal(me.NewUnit()))
		})
		It("option", func() {
			Expect(me.Parse("None")).To(Equal(me.NewNone()))
			Expect(me.Parse("Some(1)")).To(Equal(me.NewSome(me.NewNumber("1"))))
		})
		It("identifier", func() {
			Expect(me.Parse("Idle")).To(Equal(me.NewIdent("Idle")))
		})
	})

	Context("composites", func() {
		It("anonymous struct", func() {
			v := Must(me.Parse("(x: 1.0, y: 0.0, z: 0.0)"))
			Expect(deep.Equal(v, me.NewStruct("",
				me.Field{"x", me.NewNumber("1.0")},
				me.Field{"y", me.NewNumber("0.0")},
				me.Field{"z", me.NewNumber("0.0")},
			))).To(BeNil())
			Expect(v.IsParenthesized()).To(BeTrue())
		})
		It("named struct", func() {
			v := Must(me.Parse("Health(hp: 10,)"))
			Expect(deep.Equal(v, me.NewStruct("Health", me.Field{"hp", me.NewNumber("10")}))).To(BeNil())
			Expect(v.IsParenthesized()).To(BeFalse())
		})
		It("tuple", func() {
			v := Must(me.Parse(`Pair("a", Some(true))`))
			Expect(deep.Equal(v, me.NewTuple("Pair", me.NewString("a"), me.NewSome(me.NewBool(true))))).To(BeNil())
		})
		It("tuple starting with identifier", func() {
			v := Must(me.Parse(`(Idle, 2)`))
			Expect(deep.Equal(v, me.NewTuple("", me.NewIdent("Idle"), me.NewNumber("2")))).To(BeNil())
		})
		It("sequence", func() {
			v := Must(me.Parse(`["a", "b", ]`))
			Expect(deep.Equal(v, me.NewSeq(me.NewString("a"), me.NewString("b")))).To(BeNil())
		})
		It("map keeps order", func() {
			v := Must(me.Parse(`{"b": 1, "a": [], // comment
  "c": {}}`))
			Expect(v.Kind).To(Equal(me.KindMap))
			Expect(v.Entries).To(HaveLen(3))
			Expect(v.Entries[0].Key.Text).To(Equal("b"))
			Expect(v.Entries[1].Key.Text).To(Equal("a"))
			Expect(v.Entries[2].Key.Text).To(Equal("c"))
			Expect(v.Get("a")).To(Equal(me.NewSeq()))
		})
	})

	Context("errors", func() {
		It("unterminated string", func() {
			_, err := me.Parse(`"abc`)
			Expect(err).To(MatchError(ContainSubstring("unterminated string")))
		})
		It("missing separator", func() {
			_, err := me.Parse(`[1 2]`)
			Expect(err).To(MatchError(ContainSubstring("',' expected")))
		})
		It("trailing garbage", func() {
			_, err := me.Parse(`{} x`)
			Expect(err).To(MatchError(ContainSubstring("after value")))
		})
		It("duplicate field", func() {
			_, err := me.Parse(`(a: 1, a: 2)`)
			Expect(err).To(MatchError(ContainSubstring("duplicate field")))
		})
		It("empty input", func() {
			_, err := me.Parse(`  `)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("format", func() {
		It("canonical form", func() {
			v := Must(me.Parse(`{ "k" : Velocity( x : 1.0 , y:-2 ), "s": [ "a\tb", None, Some( () ) ] }`))
			Expect(v.String()).To(Equal(`{"k":Velocity(x:1.0,y:-2),"s":["a\tb",None,Some(())]}`))
		})
		It("re-parses to an equal value", func() {
			for _, in := range []string{
				`(hp: 10)`,
				`Marker("ä", 'c', [1, 2.5], {1: (a: Idle)})`,
				`{"pkg::Health": "(hp: 10)"}`,
			} {
				v := Must(me.Parse(in))
				Expect(deep.Equal(Must(me.Parse(v.String())), v)).To(BeNil(), in)
			}
		})
		It("as string", func() {
			Expect(me.NewString("(x: 1)").AsString()).To(Equal("(x: 1)"))
			Expect(me.NewSeq(me.NewString("a")).AsString()).To(Equal(`["a"]`))
		})
		It("float literal", func() {
			Expect(me.NewFloat(1).String()).To(Equal("1.0"))
			Expect(me.NewFloat(0.25).String()).To(Equal("0.25"))
		})
	})

	Context("native", func() {
		It("converts", func() {
			v := Must(me.Parse(`{"a": [1, 2.5, "x"], "b": (c: true, d: None)}`))
			Expect(v.Native()).To(Equal(map[string]interface{}{
				"a": []interface{}{int64(1), 2.5, "x"},
				"b": map[string]interface{}{"c": true, "d": nil},
			}))
		})
	})
})
