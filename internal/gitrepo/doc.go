// Package gitrepo contains helpers for interrogating Git repositories.
//
// RepositoryManager opens repositories and lists working tree status through
// the git executable. Repository reports its in-progress operation state by
// inspecting marker files inside the git directory, the same files git
// itself consults.
package gitrepo
