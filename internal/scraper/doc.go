// Package scraper turns raw listings captured from the events platform into
// processed events.
//
// A listing holds three independent HTML fragments: the category badges and
// the date block from the list endpoint, and the detail card from the event
// page. Fetching them is the job of an upstream collector; this package only
// parses, cleans and classifies what it is given. Each listing is parsed into
// its own tree, so listings can be processed concurrently and repeatedly.
package scraper
