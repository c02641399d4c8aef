package module

import (
	dom "quotewall/internal/services/engagement/domain"
	quotesdom "quotewall/internal/services/quotes/domain"
)

// Ports holds the ports exposed by the engagement module
type Ports struct {
	Service     dom.ServicePort
	Invalidator quotesdom.CountInvalidator
	Reconciler  dom.ReconcilerPort
}
