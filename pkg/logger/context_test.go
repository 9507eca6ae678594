package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("context logger", func() {
	It("returns the attached logger from derived contexts", func() {
		l := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := Attach(context.Background(), l)

		Expect(From(ctx)).To(BeIdenticalTo(l))
	})

	It("falls back to the process logger when none is attached", func() {
		Expect(From(context.Background())).NotTo(BeNil())
	})

	It("layers fields without touching the parent context", func() {
		l := slog.New(slog.NewTextHandler(io.Discard, nil))
		parent := Attach(context.Background(), l)
		child := With(parent, "traceID", "abc")

		Expect(From(parent)).To(BeIdenticalTo(l))
		Expect(From(child)).NotTo(BeIdenticalTo(l))
	})
})
