// Package database provides connection management for postgres, mysql and
// sqlite, migrations, foreign key handling, SQL seed files, driver error
// classification, logging and health checks built on top of Bun.
package database
