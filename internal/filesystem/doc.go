/*
Package filesystem provides the file access helpers used when serving
course files.

StatWithRetry and OpenWithRetry wrap os.Stat and os.Open with bounded
exponential backoff on ESTALE, which network shares return transiently
when a file is replaced under an open handle. Any other error is returned
immediately.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

Confine maps a client-supplied relative path onto the course root and
rejects anything that leaves it, either through ".." segments or through
a symlink pointing outside:

	abs, err := filesystem.Confine(root, rel)
	if errors.Is(err, filesystem.ErrOutsideRoot) {
	    // 403
	}

Retry metrics are reported through an Observer installed with SetObserver.
*/
package filesystem
