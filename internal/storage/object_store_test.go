package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	s := &S3Store{bucket: "roamly-adventures", endpoint: "localhost:9000"}

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "well-formed URL",
			url:  "http://localhost:9000/roamly-adventures/adventures/7/abc123_trail.jpg",
			want: "adventures/7/abc123_trail.jpg",
		},
		{
			name: "different bucket",
			url:  "http://localhost:9000/other-bucket/adventures/7/trail.jpg",
			want: "",
		},
		{
			name: "garbage",
			url:  "not-a-url",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.KeyFromURL(tt.url))
		})
	}
}

func TestPublicURL(t *testing.T) {
	s := &S3Store{bucket: "roamly-adventures", endpoint: "localhost:9000"}
	assert.Equal(t,
		"http://localhost:9000/roamly-adventures/adventures/1/x.jpg",
		s.PublicURL("adventures/1/x.jpg"))

	secure := &S3Store{bucket: "b", endpoint: "s3.us-west-2.amazonaws.com", secure: true}
	assert.Equal(t, "https://s3.us-west-2.amazonaws.com/b/k", secure.PublicURL("k"))
}
