package fsutil

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"libmariadb*.so", "libmariadb.so", true},
		{"libmariadb*.so", "libmariadb.so.3", false},
		{"*.vcxproj", "INSTALL.vcxproj", true},
		{"*.VCXPROJ", "install.vcxproj", true},
		{"*.vcxproj", "ALL_BUILD.vcxproj.filters", false},
		{"*/include/*.h", "zlib/include/zlib.h", true},
		{"*Release*.dll", "build/Release/lua.dll", true},
		{"*Release*.dll", "build/Debug/lua.dll", false},
		{"exact.cmake", "exact.cmake", true},
		{"exact.cmake", "other.cmake", false},
		{"?ua.c", "lua.c", true},
		{"?ua.c", "ua.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.name, func(t *testing.T) {
			got := MatchGlob(tt.pattern, tt.name)
			if got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}
