// Package postgres implements the store interfaces against PostgreSQL,
// accessed through database/sql with the pgx stdlib driver. Every store
// accepts a DBTX so the same code runs against a connection pool or a
// transaction handed down by a service.
package postgres
