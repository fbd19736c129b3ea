package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPages(t *testing.T) {
	t.Parallel()

	t.Run("parses the documented shape", func(t *testing.T) {
		response := "Here you go:\n" +
			"const defaultPages = [\n" +
			"  {\n" +
			"    path: \"/\",\n" +
			"    component: 'Home',\n" +
			"    exact: true,\n" +
			"    code: `const Home = () => {\n" +
			"  return (\n" +
			"    <div className=\"container\">\n" +
			"      <span>\\$29.99</span>\n" +
			"    </div>\n" +
			"  );\n" +
			"};`\n" +
			"  },\n" +
			"  {\n" +
			"    path: \"/about\",\n" +
			"    component: 'About',\n" +
			"    exact: false,\n" +
			"    code: `const About = () => <div>About</div>;`\n" +
			"  }\n" +
			"];"

		pages, err := ExtractPages(response)
		require.NoError(t, err)
		require.Len(t, pages, 2)

		require.Equal(t, "/", pages[0].Path)
		require.Equal(t, "Home", pages[0].Component)
		require.True(t, pages[0].Exact)
		require.Contains(t, pages[0].Code, `<span>$29.99</span>`)

		require.Equal(t, "/about", pages[1].Path)
		require.False(t, pages[1].Exact)
	})

	t.Run("accepts a bare array", func(t *testing.T) {
		pages, err := ExtractPages(`[{path: "/", component: "Home", exact: true, code: "x"}]`)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		require.Equal(t, "Home", pages[0].Component)
	})

	t.Run("accepts quoted keys and trailing commas", func(t *testing.T) {
		pages, err := ExtractPages(`const defaultPages = [
			{"path": "/", "component": 'Shop', "exact": true, "code": 'x',},
		];`)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		require.Equal(t, "Shop", pages[0].Component)
	})

	t.Run("ignores unknown keys", func(t *testing.T) {
		pages, err := ExtractPages(`const defaultPages = [
			{path: "/", component: "Home", exact: true, code: "x", priority: 3, hidden: false}
		];`)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		require.Equal(t, "/", pages[0].Path)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		pages, err := ExtractPages("const defaultPages = [];")
		require.NoError(t, err)
		require.Empty(t, pages)
	})

	t.Run("no array found", func(t *testing.T) {
		_, err := ExtractPages("Sorry, I can't help with that.")
		require.ErrorIs(t, err, ErrNoPages)
	})

	t.Run("rejects malformed arrays", func(t *testing.T) {
		for _, response := range []string{
			"const defaultPages = [{path: }];",
			"const defaultPages = [{path: \"/\" component: \"X\"}];",
			"const defaultPages = [{path: \"unterminated]",
		} {
			_, err := ExtractPages(response)
			require.Error(t, err, "response %q", response)
		}
	})

	t.Run("nothing is evaluated", func(t *testing.T) {
		// Function calls and expressions are a parse error, not code to run.
		_, err := ExtractPages(`const defaultPages = [{path: alert("pwned")}];`)
		require.Error(t, err)
	})

	t.Run("handles escape sequences", func(t *testing.T) {
		pages, err := ExtractPages(`const defaultPages = [{path: "/", component: "A", exact: true, code: "line1\nline2\t\"quoted\""}]`)
		require.NoError(t, err)
		require.Equal(t, "line1\nline2\t\"quoted\"", pages[0].Code)
	})
}
