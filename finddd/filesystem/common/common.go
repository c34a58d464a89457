package common

// This package contains shared utilities and types used across filesystem packages.
// It provides path and depth helpers, the error taxonomy of a search,
// search statistics and the visited-directory set used when following symlinks.
