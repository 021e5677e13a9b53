// Package infer is the boundary to the trained steering model. The
// model itself is external; this package only ships an image tensor out
// and a single steering scalar back.
package infer

import (
	"context"
)

// Predictor maps one preprocessed camera tensor to a steering value in
// [-1,1].
type Predictor interface {
	Predict(ctx context.Context, tensor []byte) (float64, error)
}

// Func adapts a plain function to the Predictor interface.
type Func func(ctx context.Context, tensor []byte) (float64, error)

func (f Func) Predict(ctx context.Context, tensor []byte) (float64, error) {
	return f(ctx, tensor)
}

// Fixed returns a predictor that always answers the same steering
// value. Fixed(0) drives straight; useful for dry runs without a model
// server.
func Fixed(angle float64) Predictor {
	return Func(func(context.Context, []byte) (float64, error) {
		return angle, nil
	})
}
