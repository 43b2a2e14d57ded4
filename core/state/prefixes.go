package state

var (
	certTokenPrefix   = []byte("cert/token/")
	certCounterKey    = []byte("cert/counter")
	certOwnedPrefix   = []byte("cert/owned/")
	certVoucherPrefix = []byte("cert/voucher/")
	certAllowPrefix   = []byte("cert/allow/")
	certParamsKey     = []byte("cert/params")
	certPausedKey     = []byte("cert/paused")
)

func prefixedKey(prefix, suffix []byte) []byte {
	key := make([]byte, len(prefix)+len(suffix))
	copy(key, prefix)
	copy(key[len(prefix):], suffix)
	return key
}
