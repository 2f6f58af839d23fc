package kuzu

import "testing"

func TestNamingStrategies(t *testing.T) {
	tests := []struct {
		in                         string
		snake, camel, pascal, lower string
	}{
		{"UserID", "user_id", "userId", "UserId", "userid"},
		{"HTTPServer", "http_server", "httpServer", "HttpServer", "httpserver"},
		{"user_id", "user_id", "userId", "UserId", "user_id"},
		{"Name", "name", "name", "Name", "name"},
		{"createdAt2", "created_at2", "createdAt2", "CreatedAt2", "createdat2"},
		{"", "", "", "", ""},
	}
	for _, tt := range tests {
		if got := ToSnakeCase(tt.in); got != tt.snake {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.in, got, tt.snake)
		}
		if got := ToCamelCase(tt.in); got != tt.camel {
			t.Errorf("ToCamelCase(%q) = %q, want %q", tt.in, got, tt.camel)
		}
		if got := ToPascalCase(tt.in); got != tt.pascal {
			t.Errorf("ToPascalCase(%q) = %q, want %q", tt.in, got, tt.pascal)
		}
		if got := ToLowerCase(tt.in); got != tt.lower {
			t.Errorf("ToLowerCase(%q) = %q, want %q", tt.in, got, tt.lower)
		}
	}

	if got := NamingExact.Apply("UserID"); got != "UserID" {
		t.Errorf("NamingExact.Apply changed the name to %q", got)
	}
}

func TestParseNamingStrategy(t *testing.T) {
	for _, s := range []NamingStrategy{NamingExact, NamingSnakeCase, NamingCamelCase, NamingPascalCase, NamingLowerCase} {
		got, err := ParseNamingStrategy(s.String())
		if err != nil {
			t.Fatalf("ParseNamingStrategy(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseNamingStrategy(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if got, _ := ParseNamingStrategy(" Snake "); got != NamingSnakeCase {
		t.Errorf("short form not accepted, got %v", got)
	}
	if _, err := ParseNamingStrategy("kebab"); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}
