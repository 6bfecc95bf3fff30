// api/util/validation_util_test.go
package util_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postly/api/model"
	"github.com/postly/api/util"
)

func TestValidateLoginCredentials(t *testing.T) {
	v := util.NewValidationUtil()

	t.Run("NormalizesEmail", func(t *testing.T) {
		creds := model.LoginCredentials{Email: "  Ada@Example.COM ", Password: "password123"}
		assert.NoError(t, v.ValidateLoginCredentials(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)
	})

	t.Run("RejectsMissingEmail", func(t *testing.T) {
		creds := model.LoginCredentials{Password: "password123"}
		assert.Error(t, v.ValidateLoginCredentials(&creds))
	})

	t.Run("RejectsMalformedEmail", func(t *testing.T) {
		for _, email := range []string{"nope", "a@b", "a b@c.com", "@example.com"} {
			creds := model.LoginCredentials{Email: email, Password: "password123"}
			assert.Error(t, v.ValidateLoginCredentials(&creds), email)
		}
	})

	t.Run("RejectsShortPassword", func(t *testing.T) {
		creds := model.LoginCredentials{Email: "ada@example.com", Password: "short"}
		assert.Error(t, v.ValidateLoginCredentials(&creds))
	})
}

func TestValidateSignupCredentials(t *testing.T) {
	v := util.NewValidationUtil()

	valid := func() model.SignupCredentials {
		return model.SignupCredentials{
			Username: "ada-lovelace",
			Email:    "ada@example.com",
			Password: "password123",
		}
	}

	t.Run("AcceptsValid", func(t *testing.T) {
		creds := valid()
		assert.NoError(t, v.ValidateSignupCredentials(&creds))
	})

	t.Run("LowercasesUsername", func(t *testing.T) {
		creds := valid()
		creds.Username = "Ada-Lovelace"
		assert.NoError(t, v.ValidateSignupCredentials(&creds))
		assert.Equal(t, "ada-lovelace", creds.Username)
	})

	t.Run("RejectsBadUsernames", func(t *testing.T) {
		bad := []string{
			"ab",                      // too short
			strings.Repeat("a", 21),   // too long
			"has space",               // whitespace
			"under_score",             // bad character
			"-leading",                // leading hyphen
			"trailing-",               // trailing hyphen
			"double--hyphen",          // consecutive hyphens
		}
		for _, username := range bad {
			creds := valid()
			creds.Username = username
			assert.Error(t, v.ValidateSignupCredentials(&creds), username)
		}
	})

	t.Run("AcceptsBoundaryLengths", func(t *testing.T) {
		for _, username := range []string{"abc", strings.Repeat("a", 20), "a-1"} {
			creds := valid()
			creds.Username = username
			assert.NoError(t, v.ValidateSignupCredentials(&creds), username)
		}
	})
}

func TestValidatePostInput(t *testing.T) {
	v := util.NewValidationUtil()

	valid := func() model.PostInput {
		return model.PostInput{
			Category: "engineering",
			Title:    "A valid title",
			Content:  strings.Repeat("c", 150),
		}
	}

	t.Run("AcceptsValid", func(t *testing.T) {
		input := valid()
		assert.NoError(t, v.ValidatePostInput(&input))
	})

	t.Run("CategoryBounds", func(t *testing.T) {
		input := valid()
		input.Category = "ab"
		assert.Error(t, v.ValidatePostInput(&input))

		input = valid()
		input.Category = strings.Repeat("c", 31)
		assert.Error(t, v.ValidatePostInput(&input))

		input = valid()
		input.Category = strings.Repeat("c", 30)
		assert.NoError(t, v.ValidatePostInput(&input))
	})

	t.Run("TitleBounds", func(t *testing.T) {
		input := valid()
		input.Title = "tiny"
		assert.Error(t, v.ValidatePostInput(&input))

		input = valid()
		input.Title = strings.Repeat("t", 101)
		assert.Error(t, v.ValidatePostInput(&input))
	})

	t.Run("ContentBounds", func(t *testing.T) {
		input := valid()
		input.Content = strings.Repeat("c", 99)
		assert.Error(t, v.ValidatePostInput(&input))

		input = valid()
		input.Content = strings.Repeat("c", 2001)
		assert.Error(t, v.ValidatePostInput(&input))

		input = valid()
		input.Content = strings.Repeat("c", 100)
		assert.NoError(t, v.ValidatePostInput(&input))

		input = valid()
		input.Content = strings.Repeat("c", 2000)
		assert.NoError(t, v.ValidatePostInput(&input))
	})

	t.Run("TrimsBeforeChecking", func(t *testing.T) {
		input := valid()
		input.Content = "  " + strings.Repeat("c", 99) + "  "
		assert.Error(t, v.ValidatePostInput(&input))
	})
}

func TestValidateCommentInput(t *testing.T) {
	v := util.NewValidationUtil()

	input := model.CommentInput{Content: "nice post"}
	assert.NoError(t, v.ValidateCommentInput(&input))

	input = model.CommentInput{Content: "   "}
	assert.Error(t, v.ValidateCommentInput(&input))

	input = model.CommentInput{Content: strings.Repeat("c", 301)}
	assert.Error(t, v.ValidateCommentInput(&input))

	input = model.CommentInput{Content: strings.Repeat("c", 300)}
	assert.NoError(t, v.ValidateCommentInput(&input))
}

func TestValidateObjectID(t *testing.T) {
	v := util.NewValidationUtil()

	assert.NoError(t, v.ValidateObjectID("662fbb3dfd353f1a946a8a2e"))
	assert.Error(t, v.ValidateObjectID("not-an-id"))
	assert.Error(t, v.ValidateObjectID(""))
}
