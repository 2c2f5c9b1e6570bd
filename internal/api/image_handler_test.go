package api

import "testing"

func TestExtFor(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "jpg"},
		{"photo.JPG", "jpg"},
		{"photo.jpeg", "jpeg"},
		{"photo.png", "png"},
		{"photo.gif", "gif"},
		{"photo.webp", "webp"},
		{"photo", "jpg"},
		{"photo.", "jpg"},
		{"archive.tar.gz", "jpg"},
		{"../../etc/passwd", "jpg"},
		{"page.php", "jpg"},
	}

	for _, tc := range cases {
		if got := extFor(tc.filename); got != tc.want {
			t.Errorf("extFor(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
