package pipeline

import "testing"

func TestInjectStylesheet(t *testing.T) {
	t.Parallel()

	const css = "body { font-size: 11pt; }"
	const block = "<style>" + css + "</style>"

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head close",
			html: `<html><head><link href="a.css"></head><body></body></html>`,
			css:  css,
			want: `<html><head><link href="a.css">` + block + `</head><body></body></html>`,
		},
		{
			name: "uppercase head",
			html: `<HTML><HEAD></HEAD></HTML>`,
			css:  css,
			want: `<HTML><HEAD>` + block + `</HEAD></HTML>`,
		},
		{
			name: "after body open",
			html: `<body dir="rtl"><p>x</p></body>`,
			css:  css,
			want: `<body dir="rtl">` + block + `<p>x</p></body>`,
		},
		{
			name: "fragment",
			html: `<p>x</p>`,
			css:  css,
			want: block + `<p>x</p>`,
		},
		{
			name: "blank css",
			html: `<p>x</p>`,
			css:  "  \n",
			want: `<p>x</p>`,
		},
		{
			name: "style breakout escaped",
			html: `<p>x</p>`,
			css:  `</style><script>alert(1)</script>`,
			want: `<style><\/style><script>alert(1)<\/script></style><p>x</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InjectStylesheet(tt.html, tt.css); got != tt.want {
				t.Errorf("InjectStylesheet() = %q, want %q", got, tt.want)
			}
		})
	}
}
