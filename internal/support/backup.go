package support

// Backup writes the pristine original bytes of the file at path to
// path+suffix and returns the backup path. It must complete before the
// original is overwritten; callers abort the whole operation when it
// fails. The single backup slot is overwritten on every mutating run —
// it is a safety net, not version history.
func Backup(path, suffix string, original []byte) (string, error) {
	bak := path + suffix
	if err := WriteFileAtomic(bak, original); err != nil {
		return "", err
	}
	return bak, nil
}
