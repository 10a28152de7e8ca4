// Package directory exposes read-only lookups for the entities the
// transaction core references: properties, owners, clients and users.
// It never mutates them.
package directory

import "errors"

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Property is a listed real-estate asset.
type Property struct {
	ID        int64
	Reference string
	Title     string
	City      string
	OwnerID   int64
}

// Owner is the registered owner of one or more properties.
type Owner struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// FullName returns the owner's display name.
func (o *Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}

// Client is a prospective buyer or tenant.
type Client struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// FullName returns the client's display name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// User is a back-office agent account.
type User struct {
	ID       int64
	Username string
	Email    string
}
