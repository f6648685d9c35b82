package testutils

import (
	"github.com/onsi/gomega"
)

// Must asserts a successful result and returns the value.
func Must[T any](o T, err error) T {
	gomega.ExpectWithOffset(1, err).To(gomega.Succeed())
	return o
}

func MustBeSuccessful(err error) {
	gomega.ExpectWithOffset(1, err).To(gomega.Succeed())
}
