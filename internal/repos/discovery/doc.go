// Package discovery walks directory trees and opens every git directory it finds.
package discovery
