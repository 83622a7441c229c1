// Package newsgrab extracts clean article text from news URLs. For each
// URL it runs a cascade of extraction strategies (cached per-domain
// selectors, heuristic boilerplate removal, LLM-assisted selector
// synthesis, archival-mirror fallback), validating every result and
// caching what works per domain. Paywalled sources are handled through
// renewable authenticated sessions harvested with browser automation.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package newsgrab
