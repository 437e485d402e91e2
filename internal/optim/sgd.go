package optim

// SGD implements gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[string]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[string]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(params, grads map[string]float64) {
	for name, param := range params {
		grad, ok := grads[name]
		if !ok {
			continue
		}

		if s.momentum == 0 {
			params[name] = param - s.lr*grad
			continue
		}

		v := s.momentum*s.velocities[name] + grad
		s.velocities[name] = v
		params[name] = param - s.lr*v
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
