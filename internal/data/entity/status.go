package entity

type ServiceStatus string

const (
	ServiceDraft    ServiceStatus = "draft"
	ServicePending  ServiceStatus = "pending"
	ServiceApproved ServiceStatus = "approved"
	ServiceDisabled ServiceStatus = "disabled"
	ServiceRejected ServiceStatus = "rejected"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceDraft, ServicePending, ServiceApproved, ServiceDisabled, ServiceRejected:
		return true
	}
	return false
}

type ProviderStatus string

const (
	ProviderPending  ProviderStatus = "pending"
	ProviderApproved ProviderStatus = "approved"
	ProviderDisabled ProviderStatus = "disabled"
	ProviderRejected ProviderStatus = "rejected"
)

func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderPending, ProviderApproved, ProviderDisabled, ProviderRejected:
		return true
	}
	return false
}
