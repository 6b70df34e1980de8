package service_bag

import "github.com/Carmen-Shannon/oxy-camera/common"

// ServiceBagOption is a functional option for configuring a ServiceBag.
type ServiceBagOption func(*ServiceBag)

// WithName sets the bag's display name used in teardown logs.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - ServiceBagOption: option function to apply
func WithName(name string) ServiceBagOption {
	return func(sb *ServiceBag) {
		sb.name = common.Coalesce(name, sb.name)
	}
}
