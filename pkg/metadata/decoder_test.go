package metadata_test

import (
	. "github.com/mandelsoft/scenecomponents/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	me "github.com/mandelsoft/scenecomponents/pkg/metadata"
)

var _ = Describe("decoder", func() {
	It("keeps entry order", func() {
		entries := Must(me.Decode(`{"component: velocity": "(x: 1.0, y: 0.0, z: 0.0)", "bevy_components": "{}", "a": [1]}`))
		Expect(entries.Names()).To(Equal([]string{"component: velocity", "bevy_components", "a"}))
	})

	It("provides both reductions", func() {
		entries := Must(me.Decode(`{"s": "(x: 1.0)", "l": ["a", "b"], "m": {"k": (a: 1)}}`))

		s, ok := entries.Get("s")
		Expect(ok).To(BeTrue())
		Expect(s.IsString()).To(BeTrue())
		Expect(s.AsString()).To(Equal("(x: 1.0)"))
		Expect(s.AsText()).To(Equal(`"(x: 1.0)"`))

		l, _ := entries.Get("l")
		Expect(l.AsString()).To(Equal(`["a","b"]`))
		Expect(l.AsText()).To(Equal(`["a","b"]`))

		m, _ := entries.Get("m")
		Expect(m.AsString()).To(Equal(`{"k":(a:1)}`))
	})

	It("keeps the last value of duplicate entries", func() {
		entries := Must(me.Decode(`{"a": 1, "b": 2, "a": 3}`))
		Expect(entries.Names()).To(Equal([]string{"a", "b"}))
		a, ok := entries.Get("a")
		Expect(ok).To(BeTrue())
		Expect(a.AsString()).To(Equal("3"))
	})

	It("decodes empty blobs", func() {
		Expect(me.Decode(`{}`)).To(BeEmpty())
	})

	Context("malformed", func() {
		It("syntax", func() {
			_, err := me.Decode(`{"a": `)
			Expect(err).To(MatchError(me.ErrMalformedBlob))
		})
		It("no map", func() {
			_, err := me.Decode(`["a"]`)
			Expect(err).To(MatchError(me.ErrMalformedBlob))
		})
		It("non string key", func() {
			_, err := me.Decode(`{1: "a"}`)
			Expect(err).To(MatchError(me.ErrMalformedBlob))
		})
	})
})
