package object_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureString(t *testing.T) {
	t.Parallel()

	sig := object.NewSignature("John Doe", "john@domain.tld")
	// for the sake of the test we gonna cheat a little bit and force
	// the time to be UTC. Otherwise the test would not be consistent
	// on everyone's computer
	now := time.Now().UTC()
	sig.Time = now

	expect := fmt.Sprintf("John Doe <john@domain.tld> %d +0000", now.Unix())
	assert.Equal(t, expect, sig.String())
}

func TestNewSignatureFromBytes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc                 string
		signature            string
		expectsError         bool
		expectsErrorMatch    string
		expectedName         string
		expectedEmail        string
		expectedTimestamp    int64
		expectedTzOffsetMult int
	}{
		{
			desc:                 "valid with a negative offset",
			signature:            "Melvin Laplanche <melvin.wont.reply@gmail.com> 1566115917 -0700",
			expectedName:         "Melvin Laplanche",
			expectedEmail:        "melvin.wont.reply@gmail.com",
			expectedTimestamp:    int64(1566115917),
			expectedTzOffsetMult: -7,
		},
		{
			desc:                 "valid with a positive offset",
			signature:            "Melvin Laplanche <melvin.wont.reply@gmail.com> 1566005917 +0100",
			expectedName:         "Melvin Laplanche",
			expectedEmail:        "melvin.wont.reply@gmail.com",
			expectedTimestamp:    int64(1566005917),
			expectedTzOffsetMult: 1,
		},
		{
			desc:                 "valid default author",
			signature:            "Unknown <unknown@example.com> 1566005917 +0000",
			expectedName:         "Unknown",
			expectedEmail:        "unknown@example.com",
			expectedTimestamp:    int64(1566005917),
			expectedTzOffsetMult: 0,
		},
		{
			desc:                 "valid with a 4 words name",
			signature:            "Melvin Jacques Marcel Laplanche <melvin.wont.reply@gmail.com> 1566005917 -0700",
			expectedName:         "Melvin Jacques Marcel Laplanche",
			expectedEmail:        "melvin.wont.reply@gmail.com",
			expectedTimestamp:    int64(1566005917),
			expectedTzOffsetMult: -7,
		},
		{
			desc:              "invalid offset",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com> 1566005917 nope",
			expectsError:      true,
			expectsErrorMatch: "invalid timezone format",
		},
		{
			desc:              "invalid timestamp",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com> nope -0700",
			expectsError:      true,
			expectsErrorMatch: "invalid timestamp",
		},
		{
			desc:              "invalid email",
			signature:         "Melvin Laplanche melvin.wont.reply@gmail.com 1566005917 -0700",
			expectsError:      true,
			expectsErrorMatch: "signature stopped after the name",
		},
		{
			desc:              "empty sig",
			signature:         "",
			expectsError:      true,
			expectsErrorMatch: "couldn't retrieve the name",
		},
		{
			desc:              "incomplete sig",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com>",
			expectsError:      true,
			expectsErrorMatch: "signature stopped after the email",
		},
		{
			desc:              "Email not closing",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com",
			expectsError:      true,
			expectsErrorMatch: "couldn't retrieve the email",
		},
		{
			desc:              "email opened but no content",
			signature:         "Melvin Laplanche <",
			expectsError:      true,
			expectsErrorMatch: "couldn't retrieve the email",
		},
		{
			desc:              "Missing timestamp",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com> -0700",
			expectsError:      true,
			expectsErrorMatch: "invalid timestamp",
		},
		{
			desc:              "Missing timezone",
			signature:         "Melvin Laplanche <melvin.wont.reply@gmail.com>  ",
			expectsError:      true,
			expectsErrorMatch: "signature stopped after the timestamp",
		},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			sig, err := object.NewSignatureFromBytes([]byte(tc.signature))
			if tc.expectsError {
				require.Error(t, err, "NewSignatureFromBytes should have failed")
				assert.ErrorIs(t, err, object.ErrSignatureInvalid)
				assert.ErrorIs(t, err, object.ErrObjectInvalid)
				if tc.expectsErrorMatch != "" {
					assert.Contains(t, err.Error(), tc.expectsErrorMatch)
				}
				return
			}

			require.NoError(t, err, "NewSignatureFromBytes should have succeed")
			assert.Equal(t, tc.expectedName, sig.Name)
			assert.Equal(t, tc.expectedEmail, sig.Email)
			assert.Equal(t, tc.expectedTimestamp, sig.Time.Unix())
			_, tzOffset := sig.Time.Zone()
			assert.Equal(t, tc.expectedTzOffsetMult*3600, tzOffset)
		})
	}
}

func TestSignatureIsZero(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc   string
		sig    object.Signature
		isZero bool
	}{
		{
			desc:   "empty object should be zero",
			sig:    object.Signature{},
			isZero: true,
		},
		{
			desc: "sign with a name should not be zero",
			sig: object.Signature{
				Name: "tester",
			},
			isZero: false,
		},
		{
			desc: "sign with an email should not be zero",
			sig: object.Signature{
				Email: "tester@domain.tld",
			},
			isZero: false,
		},
		{
			desc: "sign with a time should not be zero",
			sig: object.Signature{
				Time: time.Now(),
			},
			isZero: false,
		},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.isZero, tc.sig.IsZero())
		})
	}
}

func TestNewCommit(t *testing.T) {
	t.Parallel()

	treeID, err := ginternals.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)
	parentID, err := ginternals.NewOidFromStr("bbb720a96e4c29b9950a4c577c98470a4d5dd089")
	require.NoError(t, err)
	author := object.Signature{
		Name:  "author",
		Email: "author@domain.tld",
		Time:  time.Unix(1700000000, 0).In(time.FixedZone("", 5*3600+1800)),
	}

	t.Run("NewCommit with all data sets", func(t *testing.T) {
		t.Parallel()

		ci := object.NewCommit(treeID, author, &object.CommitOptions{
			ParentID: parentID,
			Message:  "message",
		})
		assert.Equal(t, treeID, ci.TreeID())
		assert.Equal(t, "message", ci.Message())
		assert.Equal(t, "author", ci.Author().Name)
		assert.Equal(t, parentID, ci.ParentID())
		assert.True(t, ci.HasParent())

		expected := "tree e5b9e846e1b468bc9597ff95d71dfacda8bd54e3\n" +
			"parent bbb720a96e4c29b9950a4c577c98470a4d5dd089\n" +
			"author author <author@domain.tld> 1700000000 +0530\n" +
			"\n" +
			"message"
		assert.Equal(t, expected, string(ci.ToObject().Bytes()))
		assert.Equal(t, ginternals.NewOidFromContent([]byte(expected)), ci.ID())
	})

	t.Run("NewCommit with no parent", func(t *testing.T) {
		t.Parallel()

		ci := object.NewCommit(treeID, author, &object.CommitOptions{
			Message: "first",
		})
		assert.False(t, ci.HasParent())
		assert.True(t, ci.ParentID().IsZero())
		assert.NotContains(t, string(ci.ToObject().Bytes()), "parent")
	})
}

func TestCommitRoundTrip(t *testing.T) {
	t.Parallel()

	treeID, err := ginternals.NewOidFromStr("e5b9e846e1b468bc9597ff95d71dfacda8bd54e3")
	require.NoError(t, err)
	parentID, err := ginternals.NewOidFromStr("bbb720a96e4c29b9950a4c577c98470a4d5dd089")
	require.NoError(t, err)
	author := object.Signature{
		Name:  "John Doe",
		Email: "john@domain.tld",
		Time:  time.Unix(1700000000, 0).UTC(),
	}

	testCases := []struct {
		desc     string
		parentID ginternals.Oid
		message  string
		summary  string
	}{
		{
			desc:    "root commit",
			message: "initial",
			summary: "initial",
		},
		{
			desc:     "commit with a parent",
			parentID: parentID,
			message:  "second",
			summary:  "second",
		},
		{
			desc:     "multi-line message",
			parentID: parentID,
			message:  "title\n\nbody\nmore body\n",
			summary:  "title",
		},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			ci := object.NewCommit(treeID, author, &object.CommitOptions{
				ParentID: tc.parentID,
				Message:  tc.message,
			})
			o := object.New(object.TypeCommit, ci.ToObject().Bytes())
			ci2, err := o.AsCommit()
			require.NoError(t, err)

			assert.Equal(t, ci.ID(), ci2.ID())
			assert.Equal(t, tc.message, ci2.Message())
			assert.Equal(t, tc.summary, ci2.Summary())
			assert.Equal(t, tc.parentID, ci2.ParentID())
			assert.Equal(t, treeID, ci2.TreeID())
			assert.Equal(t, author.Name, ci2.Author().Name)
			assert.Equal(t, author.Email, ci2.Author().Email)
			assert.Equal(t, author.Time.Unix(), ci2.Author().Time.Unix())
		})
	}
}

func TestNewCommitFromObject(t *testing.T) {
	t.Parallel()

	const (
		tree   = "tree e5b9e846e1b468bc9597ff95d71dfacda8bd54e3\n"
		parent = "parent bbb720a96e4c29b9950a4c577c98470a4d5dd089\n"
		author = "author Unknown <unknown@example.com> 1700000000 +0530\n"
	)

	testCases := []struct {
		desc         string
		content      string
		expectsError bool
	}{
		{
			desc:    "valid commit",
			content: tree + parent + author + "\nmessage",
		},
		{
			desc:    "valid commit without message",
			content: tree + author,
		},
		{
			desc:         "empty object",
			content:      "",
			expectsError: true,
		},
		{
			desc:         "missing tree",
			content:      parent + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "invalid tree",
			content:      "tree nope\n" + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "tree too short",
			content:      "tree e5b9e846e1b468bc9597ff95d71dfacda8bd54e\n" + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "invalid parent",
			content:      tree + "parent ../../HEAD\n" + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "two parents",
			content:      tree + parent + parent + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "missing author",
			content:      tree + parent + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "invalid author",
			content:      tree + "author nope\n" + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "starts with a blank line",
			content:      "\n" + tree + author + "\nmessage",
			expectsError: true,
		},
		{
			desc:         "garbage",
			content:      "this is not a commit",
			expectsError: true,
		},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			ci, err := object.NewCommitFromObject(object.New(object.TypeCommit, []byte(tc.content)))
			if tc.expectsError {
				require.Error(t, err)
				assert.ErrorIs(t, err, object.ErrObjectInvalid)
				assert.Nil(t, ci)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "e5b9e846e1b468bc9597ff95d71dfacda8bd54e3", ci.TreeID().String())
		})
	}

	t.Run("wrong type should fail", func(t *testing.T) {
		t.Parallel()

		_, err := object.NewCommitFromObject(object.New(object.TypeBlob, []byte(tree+author)))
		require.Error(t, err)
		assert.ErrorIs(t, err, object.ErrObjectInvalid)
	})
}
