package signals

import (
	"context"
	"fmt"
	"os"
)

// Order says where a chained callback runs relative to the handler it wraps.
type Order string

const (
	Before Order = "before"
	After  Order = "after"
)

// ParseOrder accepts exactly "before" or "after".
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case Before, After:
		return o, nil
	}
	return "", fmt.Errorf("%w: chain order %q (want %q or %q)", ErrInvalidArgument, s, Before, After)
}

// Chain wraps the handler currently installed for sig with the callback of
// rc, which must be a Custom reaction. With Before the new callback runs
// first; with After the existing handler runs first. The existing handler is
// only called when it is invocable: default and ignore dispositions are not
// forwarded to. Each call nests another layer around whatever is installed
// at that moment.
func (r *Registry) Chain(sig os.Signal, rc Reaction, order Order) error {
	if order != Before && order != After {
		return fmt.Errorf("%w: chain order %q", ErrInvalidArgument, order)
	}
	if rc.kind != reactionCustom || rc.fn == nil {
		return fmt.Errorf("%w: only custom callbacks can be chained, got %v", ErrInvalidArgument, rc)
	}
	if _, err := identify(sig); err != nil {
		r.warnf("signals: could not chain handler for %v: %v", sig, err)
		return err
	}

	orig := r.Get(sig)
	cb := r.newHandler(rc.label, rc.fn)
	r.debugf("signals: chaining %s to %v handler %s (order: %s)", cb, sig, orig, order)

	var composite Callback
	if order == Before {
		composite = func(ctx context.Context, s os.Signal) {
			cb.Call(ctx, s)
			orig.Call(ctx, s)
		}
	} else {
		composite = func(ctx context.Context, s os.Signal) {
			orig.Call(ctx, s)
			cb.Call(ctx, s)
		}
	}
	label := fmt.Sprintf("%s %s %s", cb.Label(), order, orig.Label())
	return r.Set(&Handler{label: label, fn: composite}, sig)
}
