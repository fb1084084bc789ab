/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package directory holds the employee records, the search filters over them
// and the per-organization projection of records into response rows.
package directory
