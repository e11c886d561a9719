// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Scalers site. The serve command
// runs the public site and admin panel; migrate and user manage the
// database from the shell.
package main

func main() {
	Execute()
}
