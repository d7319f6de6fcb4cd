package broadcast

import (
	"context"
	"errors"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
)

// Fanout publishes each event to every target in order and joins the errors.
// One failing target does not stop the others.
type Fanout []match.Broadcaster

func (f Fanout) Publish(ctx context.Context, event match.Event) error {
	var errs []error
	for _, b := range f {
		if err := b.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
