// Package models contains the GORM persistence models. Domain entities stay
// free of ORM tags; each model converts with ToDomain/FromDomain.
//
// Every tenant-scoped model carries an indexed tenant_id, and every natural
// key unique index leads with tenant_id. Money and percentages are
// decimal(18,4) backed by shopspring/decimal.
package models
