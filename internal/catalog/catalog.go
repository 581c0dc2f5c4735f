// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog defines every resource the admin panel manages: the
// endpoint dialect each one speaks, the table columns and the form
// schema, plus which roles may read or write it.
package catalog

import (
	"fmt"
	"sort"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/form"
)

// Column is one table column; Path is a dotted record path.
type Column struct {
	Header string
	Path   string
	Width  int // max display width, 0 = unlimited
}

// Definition describes one managed resource.
type Definition struct {
	Name      string // CLI and URL name, e.g. "sub-categories"
	Label     string // singular, e.g. "Sub-category"
	Plural    string
	Endpoints apiclient.Endpoints
	Columns   []Column
	Schema    form.Schema
}

// Catalog is the set of resource definitions with role access.
type Catalog struct {
	defs   []Definition
	byName map[string]int
	access map[Role]map[string]Permission
}

// New builds a catalog from defs; names must be unique.
func New(defs []Definition, access map[Role]map[string]Permission) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]int, len(defs)),
		access: access,
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("resource definition without a name")
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate resource %q", d.Name)
		}
		c.byName[d.Name] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(definitions(), access)
	if err != nil {
		panic("catalog: " + err.Error())
	}
	return c
}

// Resources returns every definition in declaration order.
func (c *Catalog) Resources() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Lookup finds a definition by name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Names returns all resource names sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for _, d := range c.defs {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Permission returns what role may do with resource.
func (c *Catalog) Permission(role Role, resource string) Permission {
	if _, ok := c.byName[resource]; !ok {
		return 0
	}
	if role == RoleAdmin {
		return ReadWrite
	}
	return c.access[role][resource]
}

// Can reports whether role holds want on resource.
func (c *Catalog) Can(role Role, resource string, want Permission) bool {
	return c.Permission(role, resource).Has(want)
}

// ForRole returns the definitions role can at least read.
func (c *Catalog) ForRole(role Role) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if c.Can(role, d.Name, Read) {
			out = append(out, d)
		}
	}
	return out
}

// AccessError is returned when a role lacks a permission.
type AccessError struct {
	Role     Role
	Resource string
	Want     Permission
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("role %s cannot %s %s", e.Role, e.Want, e.Resource)
}

// Authorize returns an *AccessError unless role holds want on resource.
func (c *Catalog) Authorize(role Role, resource string, want Permission) error {
	if _, ok := c.byName[resource]; !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}
	if !c.Can(role, resource, want) {
		return &AccessError{Role: role, Resource: resource, Want: want}
	}
	return nil
}
