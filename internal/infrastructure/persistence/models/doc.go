// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain layer stays free of
// ORM tags; repositories convert with ToDomain / FromDomain.
//
// Money columns are decimal(18,2) and percentage columns decimal(5,2).
package models
