// Package artifact generates the per-team images shown during voting. The
// coordinator treats generation as an opaque collaborator: collected team
// inputs go in, a displayable reference comes out.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

type Generator interface {
	Generate(ctx context.Context, promptRef string, inputs []string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, promptRef string, inputs []string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, promptRef string, inputs []string) (string, error) {
	return f(ctx, promptRef, inputs)
}

// Placeholder derives a deterministic local image reference from the hidden
// prompt and the team's inputs. Used when no image backend is configured.
type Placeholder struct{}

func (Placeholder) Generate(_ context.Context, promptRef string, inputs []string) (string, error) {
	sum := sha256.Sum256([]byte(promptRef + "|" + strings.Join(inputs, "|")))
	return fmt.Sprintf("/images/generated-%s.jpg", hex.EncodeToString(sum[:4])), nil
}
