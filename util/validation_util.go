// api/util/validation_util.go

package util

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/postly/api/model"
)

var (
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern      = regexp.MustCompile(`^[a-z0-9-]+$`)
	doubleHyphenPattern  = regexp.MustCompile(`--`)
	usernameEdgesPattern = regexp.MustCompile(`^[a-z0-9].*[a-z0-9]$`)
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateLoginCredentials checks the email/password pair, normalizing the
// email to lowercase.
func (v *ValidationUtil) ValidateLoginCredentials(creds *model.LoginCredentials) error {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	creds.Password = strings.TrimSpace(creds.Password)

	if creds.Email == "" {
		return fmt.Errorf("email address must be provided")
	}
	if !emailPattern.MatchString(creds.Email) {
		return fmt.Errorf("invalid email address")
	}
	if len(creds.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidateSignupCredentials checks the full signup payload. Usernames are
// lowercase letters, digits and hyphens, with no leading, trailing or
// consecutive hyphens.
func (v *ValidationUtil) ValidateSignupCredentials(creds *model.SignupCredentials) error {
	login := model.LoginCredentials{Email: creds.Email, Password: creds.Password}
	if err := v.ValidateLoginCredentials(&login); err != nil {
		return err
	}
	creds.Email = login.Email
	creds.Password = login.Password

	creds.Username = strings.ToLower(strings.TrimSpace(creds.Username))
	if creds.Username == "" {
		return fmt.Errorf("username must be provided")
	}
	if len(creds.Username) < 3 || len(creds.Username) > 20 {
		return fmt.Errorf("username must be between 3 and 20 characters")
	}
	if !usernamePattern.MatchString(creds.Username) {
		return fmt.Errorf("username may only contain lowercase letters, numbers, and hyphens")
	}
	if !usernameEdgesPattern.MatchString(creds.Username) {
		return fmt.Errorf("username must start and end with a letter or number")
	}
	if doubleHyphenPattern.MatchString(creds.Username) {
		return fmt.Errorf("username cannot contain consecutive hyphens")
	}
	return nil
}

// ValidatePostInput checks the create-post payload against the schema
// bounds (category 3-30, title 5-100, content 100-2000).
func (v *ValidationUtil) ValidatePostInput(input *model.PostInput) error {
	input.Category = strings.TrimSpace(input.Category)
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	if len(input.Category) < 3 || len(input.Category) > 30 {
		return fmt.Errorf("category must be between 3 and 30 characters")
	}
	if len(input.Title) < 5 || len(input.Title) > 100 {
		return fmt.Errorf("title must be between 5 and 100 characters")
	}
	if len(input.Content) < 100 || len(input.Content) > 2000 {
		return fmt.Errorf("content must be between 100 and 2000 characters")
	}
	return nil
}

// ValidateCommentInput checks the add-comment payload (content 1-300).
func (v *ValidationUtil) ValidateCommentInput(input *model.CommentInput) error {
	input.Content = strings.TrimSpace(input.Content)
	if len(input.Content) < 1 || len(input.Content) > 300 {
		return fmt.Errorf("comment must be between 1 and 300 characters")
	}
	return nil
}

// ValidateObjectID checks that id is a well-formed document id.
func (v *ValidationUtil) ValidateObjectID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("invalid id: %s", id)
	}
	return nil
}
