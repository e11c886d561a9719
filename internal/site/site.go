// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site holds the marketing copy and page identities of the public
// website. The copy ships embedded as YAML and can be replaced by a file
// at startup without a rebuild.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultContent []byte

// Brand is the agency's name and pitch.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Intro   string `yaml:"intro"`
}

// Contact details shown in the footer and on the contact page.
type Contact struct {
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
	Hours   string `yaml:"hours"`
}

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type NavItem struct {
	Page  Page   `yaml:"page"`
	Label string `yaml:"label"`
}

type Service struct {
	Number      string `yaml:"number"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Block is a titled paragraph, used for process steps and values.
type Block struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Testimonial struct {
	Quote string `yaml:"quote"`
	Body  string `yaml:"body"`
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
}

// Content is every piece of static copy on the site.
type Content struct {
	Brand           Brand         `yaml:"brand"`
	Contact         Contact       `yaml:"contact"`
	Socials         []Link        `yaml:"socials"`
	Nav             []NavItem     `yaml:"nav"`
	Services        []Service     `yaml:"services"`
	Process         []Block       `yaml:"process"`
	Values          []Block       `yaml:"values"`
	Stats           []Stat        `yaml:"stats"`
	Testimonials    []Testimonial `yaml:"testimonials"`
	ContactServices []string      `yaml:"contact_services"`
}

// Default returns the embedded copy. It panics only if the embedded file
// is broken, which the package tests rule out.
func Default() *Content {
	c, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("site: embedded content: %v", err))
	}
	return c
}

// Load reads copy from path, or returns Default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks YAML copy.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	var errs []error
	if c.Brand.Name == "" {
		errs = append(errs, errors.New("brand.name is required"))
	}
	if c.Contact.Email == "" {
		errs = append(errs, errors.New("contact.email is required"))
	}
	for _, n := range c.Nav {
		if _, ok := ParsePage(string(n.Page)); !ok {
			errs = append(errs, fmt.Errorf("nav: unknown page %q", n.Page))
		}
	}
	return errors.Join(errs...)
}

// OffersService reports whether s is one of the contact form's options.
// The empty string means no selection and is always accepted.
func (c *Content) OffersService(s string) bool {
	return s == "" || slices.Contains(c.ContactServices, s)
}
