// Package commitlog gathers the commit lines that describe how the current
// branch and another branch diverged.
//
// Service issues git log, git merge-base, and git branch through a GitExecutor
// and returns a Divergence ready for the columns renderer.
package commitlog
