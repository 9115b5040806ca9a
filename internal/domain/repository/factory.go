package repository

// Factory describes access to different domain repositories.
type Factory interface {
	StandingOrders() StandingOrderRepository
	Orders() OrderRepository
	Customers() CustomerRepository
	Products() ProductRepository
}
