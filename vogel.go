// Package vogel scrapes bird species portraits from the NABU website and
// turns each portrait page into a fixed-shape species record.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package vogel
