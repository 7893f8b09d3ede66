package contentstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIpfsCID(t *testing.T) {
	type testConfig struct {
		name      string
		contentID string
		expect    string
		expectErr bool
	}
	for _, tc := range []testConfig{
		{
			name:      "raw cid",
			contentID: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			expect:    "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		},
		{
			name:      "ipfs url keeps cid casing",
			contentID: "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			expect:    "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		},
		{
			name:      "http url is rejected",
			contentID: "http://example.com/blob",
			expectErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cid, err := ipfsCID(tc.contentID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, cid)
		})
	}
}
