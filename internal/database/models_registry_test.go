package database

import (
	"testing"

	modelspkg "quill/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_CoversCoreEntities(t *testing.T) {
	var hasUser, hasArticle, hasComment bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.User:
			hasUser = true
		case *modelspkg.Article:
			hasArticle = true
		case *modelspkg.Comment:
			hasComment = true
		}
	}
	require.True(t, hasUser, "PersistentModels should include User")
	require.True(t, hasArticle, "PersistentModels should include Article")
	require.True(t, hasComment, "PersistentModels should include Comment")
}
