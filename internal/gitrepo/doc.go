// Package gitrepo reads commit state and diffs from a local git repository.
//
// It wraps go-git so the rest of the system never touches a git binary: HEAD
// resolution, remote tracking-ref refresh, tree-to-tree diffs, and full tree
// walks are all in-process. [Repository.Extract] turns a detected commit into
// the normalized [Payload] the review pipeline consumes, substituting
// replacement characters for undecodable bytes and placeholder markers for
// binary blobs so a single odd file never sinks the whole extraction.
//
// Errors are split by severity: [AccessError] means the repository itself is
// gone or unreadable and the caller should stop, [RemoteUnavailableError]
// means only the network fetch failed and local-only operation can continue,
// and [ExtractError] is scoped to one commit's extraction.
package gitrepo
