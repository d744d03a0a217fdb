// Package catalog holds the product categories the recommendation system
// knows about, and builds the agent query from user preferences.
package catalog

import (
	"fmt"
	"sort"
)

// Category describes a product category through the features, product types
// and use cases a user can pick from.
type Category struct {
	Features []string `json:"features"`
	Types    []string `json:"types"`
	UseCases []string `json:"use_cases"`
}

// MaxBudget is the upper bound of the budget input, in USD.
const MaxBudget = 10000

var categories = map[string]Category{
	"Cameras": {
		Features: []string{
			"Low Light Performance",
			"4K Video",
			"Image Stabilization",
			"Weather Sealing",
			"Compact Size",
			"WiFi Connectivity",
			"Touch Screen",
		},
		Types: []string{
			"Mirrorless",
			"DSLR",
			"Point and Shoot",
			"Medium Format",
		},
		UseCases: []string{
			"Professional Photography",
			"Vlogging",
			"Travel Photography",
			"Sports Photography",
			"Wildlife Photography",
		},
	},
	"Laptops": {
		Features: []string{
			"Long Battery Life",
			"Dedicated Graphics",
			"Touch Screen",
			"Backlit Keyboard",
			"Fingerprint Reader",
			"Thunderbolt Ports",
			"5G Connectivity",
		},
		Types: []string{
			"Ultrabook",
			"Gaming Laptop",
			"Business Laptop",
			"2-in-1 Convertible",
			"Budget Laptop",
		},
		UseCases: []string{
			"Gaming",
			"Content Creation",
			"Business",
			"Student",
			"Programming",
		},
	},
	"Smartphones": {
		Features: []string{
			"5G Support",
			"Wireless Charging",
			"Water Resistance",
			"Face Recognition",
			"Multiple Cameras",
			"Fast Charging",
			"NFC",
		},
		Types: []string{
			"Flagship",
			"Mid-range",
			"Budget",
			"Gaming Phone",
			"Compact",
		},
		UseCases: []string{
			"Photography",
			"Gaming",
			"Business",
			"Basic Use",
			"Content Creation",
		},
	},
	"Smart Home Devices": {
		Features: []string{
			"Voice Control",
			"Mobile App Control",
			"Energy Monitoring",
			"Motion Detection",
			"Smart Scheduling",
			"Multi-user Support",
			"Integration Capabilities",
		},
		Types: []string{
			"Smart Speakers",
			"Security Cameras",
			"Smart Lights",
			"Smart Thermostats",
			"Smart Displays",
		},
		UseCases: []string{
			"Home Security",
			"Energy Management",
			"Entertainment",
			"Home Automation",
			"Family Organization",
		},
	},
}

// Names returns the category names in stable order.
func Names() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the category under name.
func Get(name string) (Category, bool) {
	c, ok := categories[name]
	return c, ok
}

// All returns a copy of the full catalog keyed by category name.
func All() map[string]Category {
	cp := make(map[string]Category, len(categories))
	for k, v := range categories {
		cp[k] = v
	}
	return cp
}

// ValidateFeatures checks that every requested feature belongs to the named
// category. Returns an error naming the first offender.
func ValidateFeatures(categoryName string, features []string) error {
	c, ok := categories[categoryName]
	if !ok {
		return fmt.Errorf("unknown category: '%v'", categoryName)
	}
	for _, f := range features {
		found := false
		for _, known := range c.Features {
			if f == known {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown feature '%v' for category '%v'", f, categoryName)
		}
	}
	return nil
}
