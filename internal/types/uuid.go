package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex cons_01HZY3Q8J5V6W2X9N4K7M1P0RS
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_TENANT               = "tenant"
	UUID_PREFIX_BRANCH               = "br"
	UUID_PREFIX_SEQUENCE             = "seq"
	UUID_PREFIX_CONSIGNMENT          = "cons"
	UUID_PREFIX_TRACKING             = "trk"
	UUID_PREFIX_INVOICE              = "inv"
	UUID_PREFIX_INVOICE_CONSIGNMENT  = "inv_cons"
	UUID_PREFIX_OGPL                 = "ogpl"
	UUID_PREFIX_OGPL_CONSIGNMENT     = "ogpl_cons"
	UUID_PREFIX_DELIVERY_RUN         = "drun"
	UUID_PREFIX_DELIVERY_CONSIGNMENT = "drun_cons"
	UUID_PREFIX_RECEIPT              = "rcp"
)
