// Package models holds the inventory records: libraries, the shared title
// catalog, and the physical copies each library owns.
package models

import (
	"time"

	"libnet/pkg/domain"
)

// Library is one physical library in the network. Created by network
// admins; never deleted in normal operation.
type Library struct {
	ID        domain.LibraryID
	Name      string
	City      string
	CreatedAt time.Time
}

// Title is a catalog entry shared across all libraries. One title may have
// many copies across many libraries.
type Title struct {
	ID        domain.TitleID
	Title     string
	Author    string
	Category  string
	ISBN      string
	CreatedAt time.Time
}

// Copy is one physical instance of a title, owned by exactly one library for
// its lifetime. Status is mutated exclusively by the circulation engine.
type Copy struct {
	ID        domain.CopyID
	TitleID   domain.TitleID
	LibraryID domain.LibraryID
	// Code is the barcode/label on the physical item, unique within its
	// library (not globally).
	Code      string
	Status    domain.CopyStatus
	CreatedAt time.Time
}

// AvailableCopy is the desk view of a lendable copy.
type AvailableCopy struct {
	CopyID domain.CopyID
	Title  string
	Author string
	Code   string
}

// SearchResult is one row of the public catalog search: a copy somewhere in
// the network together with its current status.
type SearchResult struct {
	Title    string
	Author   string
	Category string
	Library  string
	Status   domain.CopyStatus
}
