// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain counterpart with ToDomain and a ...FromDomain constructor.
//
// Structure:
// - base.go: fields shared by every table (ID, timestamps)
// - partner.go: customers
// - lending.go: credits
package models
