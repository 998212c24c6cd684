// Package internal holds unexported helpers shared by the goCognito root
// package: random code and temporary-password generation from the service's
// constrained alphabet, and compact session identifiers.
package internal
