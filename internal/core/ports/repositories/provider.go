package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer at startup.
type RepositoryProvider struct {
	ClientRepo   ClientRepositoryFacade
	InvoiceRepo  InvoiceRepositoryFacade
	PaymentRepo  PaymentRepositoryFacade
	UserRepo     UserRepositoryFacade
	SequenceRepo InvoiceNumberSequence
}
