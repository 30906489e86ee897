package bus

// Subscription is the single release capability of a registration
type Subscription interface {
	Dispose()
	IsInterfaceNil() bool
}
