package models

// All lists every model in migration order (catalogs before the rows that reference them)
func All() []interface{} {
	return []interface{}{
		&UserAuth{},
		&DocumentType{},
		&Tps{},
		&Warehouse{},
		&Conveyance{},
		&Unit{},
		&Packaging{},
		&Document{},
		&Tangki{},
		&RefCounter{},
		&ServiceCredential{},
		&TransmissionLog{},
		&AuditLog{},
		&SoapCallLog{},
	}
}
