package services

// ServiceContainer holds all the service interfaces handlers depend on.
type ServiceContainer struct {
	Client  ClientSvcFacade
	Invoice InvoiceSvcFacade
	Payment PaymentSvcFacade
	User    UserSvcFacade
}
