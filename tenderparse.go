// Package tenderparse converts semi-structured procurement announcement
// pages into normalized structured records. It classifies each page into a
// structural family, segments it into named sections, maps labeled fragments
// onto canonical fields, and normalizes amounts and dates into comparable
// forms.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package tenderparse
