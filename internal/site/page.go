// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import "strings"

// Page identifies one public view.
type Page string

const (
	PageHome     Page = "home"
	PageClients  Page = "clients"
	PageServices Page = "services"
	PageAbout    Page = "about"
	PageContact  Page = "contact"
	PagePrivacy  Page = "privacy"
	PageTerms    Page = "terms"
	PageAdmin    Page = "admin"
)

// Pages lists every page identity.
var Pages = []Page{PageHome, PageClients, PageServices, PageAbout, PageContact, PagePrivacy, PageTerms, PageAdmin}

var titles = map[Page]string{
	PageHome:     "Home",
	PageClients:  "Clients",
	PageServices: "Services",
	PageAbout:    "About Us",
	PageContact:  "Contact",
	PagePrivacy:  "Privacy Policy",
	PageTerms:    "Terms of Service",
	PageAdmin:    "Admin",
}

// ParsePage maps a name to a page. Matching ignores case, surrounding
// whitespace and slashes, and a leading "#". Unknown or empty names yield
// PageHome with ok false.
func ParsePage(name string) (p Page, ok bool) {
	name = strings.ToLower(strings.Trim(strings.TrimSpace(name), "/#"))
	for _, known := range Pages {
		if string(known) == name {
			return known, true
		}
	}
	return PageHome, false
}

// Path is the canonical URL path of the page.
func (p Page) Path() string {
	switch p {
	case PageHome, "":
		return "/"
	case PageAdmin:
		return "/admin"
	}
	return "/" + string(p)
}

// Title is the human name used in <title> and the navigation.
func (p Page) Title() string {
	if t, ok := titles[p]; ok {
		return t
	}
	return titles[PageHome]
}

// Public reports whether the page belongs to the marketing site.
func (p Page) Public() bool {
	return p != PageAdmin
}
