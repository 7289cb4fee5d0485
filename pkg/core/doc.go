// Package core defines the shared language of the litegate system.
//
// This package contains:
//   - Domain entities (TableDescriptor, ColumnDescriptor, Page, QueryResult)
//   - Catalog entries (DatabaseFile, Category)
//   - The error taxonomy shared by every layer (Kind, Error)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
