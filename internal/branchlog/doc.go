// Package branchlog provides the command that draws how the current branch
// and another branch diverged.
//
// CommandBuilder wires configuration, the commitlog Service, and the columns
// Renderer into a Cobra command taking exactly one branch name.
package branchlog
