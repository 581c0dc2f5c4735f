// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"fmt"
	"strings"
)

// Role is an admin panel persona.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleVendor     Role = "vendor"
	RoleFreelancer Role = "freelancer"
	RoleAccountant Role = "accountant"
	RoleSupervisor Role = "supervisor"
	RoleCustomer   Role = "customer"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleVendor, RoleFreelancer, RoleAccountant, RoleSupervisor, RoleCustomer}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q (valid: admin, vendor, freelancer, accountant, supervisor, customer)", s)
}

// Permission is a bit set of what a role may do with a resource.
type Permission uint8

const (
	Read Permission = 1 << iota
	Write
)

// ReadWrite grants both.
const ReadWrite = Read | Write

func (p Permission) String() string {
	switch p {
	case ReadWrite:
		return "read, write"
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "none"
	}
}

// Has reports whether p includes want.
func (p Permission) Has(want Permission) bool {
	return p&want == want
}

// access is the role matrix. Admin is implicit full access.
var access = map[Role]map[string]Permission{
	RoleVendor: {
		"products":       ReadWrite,
		"coupons":        ReadWrite,
		"brands":         Read,
		"categories":     Read,
		"sub-categories": Read,
		"customers":      Read,
		"testimonials":   Read,
	},
	RoleFreelancer: {
		"properties": ReadWrite,
		"projects":   Read,
		"developers": Read,
		"amenities":  Read,
		"customers":  Read,
	},
	RoleAccountant: {
		"vendors":     Read,
		"freelancers": Read,
		"customers":   Read,
		"coupons":     Read,
		"products":    Read,
		"properties":  Read,
	},
	RoleSupervisor: {
		"brands":         Read,
		"categories":     Read,
		"sub-categories": Read,
		"developers":     Read,
		"projects":       Read,
		"properties":     Read,
		"amenities":      Read,
		"products":       Read,
		"blogs":          ReadWrite,
		"vendors":        Read,
		"freelancers":    Read,
		"customers":      Read,
		"banners":        ReadWrite,
		"coupons":        Read,
		"testimonials":   ReadWrite,
	},
	RoleCustomer: {
		"testimonials": ReadWrite,
		"products":     Read,
		"properties":   Read,
		"blogs":        Read,
	},
}
