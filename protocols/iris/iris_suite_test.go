package iris_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIris(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Iris Match Circuit Suite")
}
