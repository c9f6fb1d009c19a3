package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/passcode/internal/delivery/usecase.(*Router).Deliver(...)
	/src/passcode/internal/delivery/usecase/router.go:88 +0x1a
github.com/nats-io/nats.go.(*Conn).Publish(...)
	/go/pkg/mod/github.com/nats-io/nats.go@v1.48.0/nats.go:3000 +0x10
`)

	assert.Equal(t, []string{"internal/delivery/usecase/router.go:88"}, InternalPaths(stack))
	assert.Empty(t, InternalPaths(nil))
}
