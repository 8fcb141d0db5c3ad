// internal/database/profile_repository.go
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// ProfileDocument represents the MongoDB schema for a profile.
type ProfileDocument struct {
	ID             string              `bson:"_id"`
	User           string              `bson:"user"` // Owning user ID, unique
	Handle         string              `bson:"handle"`
	Status         string              `bson:"status"`
	Skills         []string            `bson:"skills"`
	Company        string              `bson:"company,omitempty"`
	Website        string              `bson:"website,omitempty"`
	Location       string              `bson:"location,omitempty"`
	Bio            string              `bson:"bio,omitempty"`
	GithubUsername string              `bson:"githubusername,omitempty"`
	Social         models.SocialLinks  `bson:"social"`
	Experience     []ExperienceEntry   `bson:"experience"`
	Education      []EducationEntry    `bson:"education"`
	CreatedAt      time.Time           `bson:"createdat"`
}

// ExperienceEntry is the embedded experience sub-document.
type ExperienceEntry struct {
	ID          string `bson:"_id"`
	Title       string `bson:"title"`
	Company     string `bson:"company"`
	Location    string `bson:"location,omitempty"`
	From        string `bson:"from"`
	To          string `bson:"to,omitempty"`
	Current     bool   `bson:"current"`
	Description string `bson:"description,omitempty"`
}

// EducationEntry is the embedded education sub-document.
type EducationEntry struct {
	ID           string `bson:"_id"`
	School       string `bson:"school"`
	Degree       string `bson:"degree"`
	FieldOfStudy string `bson:"fieldofstudy"`
	From         string `bson:"from"`
	To           string `bson:"to,omitempty"`
	Current      bool   `bson:"current"`
	Description  string `bson:"description,omitempty"`
}

func profileToDocument(profile *models.Profile) *ProfileDocument {
	doc := &ProfileDocument{
		ID:             profile.ID.String(),
		User:           profile.User.String(),
		Handle:         profile.Handle,
		Status:         profile.Status,
		Skills:         profile.Skills,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		GithubUsername: profile.GithubUsername,
		Social:         profile.Social,
		Experience:     make([]ExperienceEntry, len(profile.Experience)),
		Education:      make([]EducationEntry, len(profile.Education)),
		CreatedAt:      profile.CreatedAt,
	}
	for i, exp := range profile.Experience {
		doc.Experience[i] = experienceToEntry(exp)
	}
	for i, edu := range profile.Education {
		doc.Education[i] = educationToEntry(edu)
	}
	return doc
}

func experienceToEntry(exp models.Experience) ExperienceEntry {
	return ExperienceEntry{
		ID:          exp.ID.String(),
		Title:       exp.Title,
		Company:     exp.Company,
		Location:    exp.Location,
		From:        exp.From,
		To:          exp.To,
		Current:     exp.Current,
		Description: exp.Description,
	}
}

func educationToEntry(edu models.Education) EducationEntry {
	return EducationEntry{
		ID:           edu.ID.String(),
		School:       edu.School,
		Degree:       edu.Degree,
		FieldOfStudy: edu.FieldOfStudy,
		From:         edu.From,
		To:           edu.To,
		Current:      edu.Current,
		Description:  edu.Description,
	}
}

func documentToProfile(doc *ProfileDocument) (*models.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID in database: %v", err)
	}
	userID, err := uuid.Parse(doc.User)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	profile := &models.Profile{
		ID:             id,
		User:           userID,
		Handle:         doc.Handle,
		Status:         doc.Status,
		Skills:         doc.Skills,
		Company:        doc.Company,
		Website:        doc.Website,
		Location:       doc.Location,
		Bio:            doc.Bio,
		GithubUsername: doc.GithubUsername,
		Social:         doc.Social,
		Experience:     make([]models.Experience, len(doc.Experience)),
		Education:      make([]models.Education, len(doc.Education)),
		CreatedAt:      doc.CreatedAt,
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	for i, entry := range doc.Experience {
		entryID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid experience ID in database: %v", err)
		}
		profile.Experience[i] = models.Experience{
			ID:          entryID,
			Title:       entry.Title,
			Company:     entry.Company,
			Location:    entry.Location,
			From:        entry.From,
			To:          entry.To,
			Current:     entry.Current,
			Description: entry.Description,
		}
	}
	for i, entry := range doc.Education {
		entryID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid education ID in database: %v", err)
		}
		profile.Education[i] = models.Education{
			ID:           entryID,
			School:       entry.School,
			Degree:       entry.Degree,
			FieldOfStudy: entry.FieldOfStudy,
			From:         entry.From,
			To:           entry.To,
			Current:      entry.Current,
			Description:  entry.Description,
		}
	}

	return profile, nil
}

// SaveProfile creates or updates a profile, keyed by its ID.
func (m *MongoDB) SaveProfile(ctx context.Context, profile *models.Profile) error {
	doc := profileToDocument(profile)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": profile.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Profiles.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewFieldError(utils.ErrDuplicate, "handle", "That handle already exists")
	}
	return err
}

// GetProfileByUser retrieves the profile owned by a user.
func (m *MongoDB) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Profiles.FindOne(ctx, bson.M{"user": userID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// GetProfileByHandle retrieves a profile by its unique handle.
func (m *MongoDB) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Profiles.FindOne(ctx, bson.M{"handle": handle}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// GetAllProfiles retrieves every profile.
func (m *MongoDB) GetAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	cursor, err := m.Profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	profiles := []*models.Profile{}
	for cursor.Next(ctx) {
		var doc ProfileDocument
		if err := cursor.Decode(&doc); err != nil {
			slog.Error("error decoding profile document", "error", err)
			continue
		}

		profile, err := documentToProfile(&doc)
		if err != nil {
			slog.Error("error converting profile document", "error", err)
			continue
		}
		profiles = append(profiles, profile)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return profiles, nil
}

// UpdateProfile merges only the submitted fields into an existing profile and
// returns the updated document.
func (m *MongoDB) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error) {
	set := bson.M{}
	if update.Handle != "" {
		set["handle"] = update.Handle
	}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.SkillsSet {
		set["skills"] = update.Skills
	}
	if update.Company != "" {
		set["company"] = update.Company
	}
	if update.Website != "" {
		set["website"] = update.Website
	}
	if update.Location != "" {
		set["location"] = update.Location
	}
	if update.Bio != "" {
		set["bio"] = update.Bio
	}
	if update.GithubUsername != "" {
		set["githubusername"] = update.GithubUsername
	}
	if update.Social.Youtube != "" {
		set["social.youtube"] = update.Social.Youtube
	}
	if update.Social.Twitter != "" {
		set["social.twitter"] = update.Social.Twitter
	}
	if update.Social.Facebook != "" {
		set["social.facebook"] = update.Social.Facebook
	}
	if update.Social.Instagram != "" {
		set["social.instagram"] = update.Social.Instagram
	}
	if update.Social.Linkedin != "" {
		set["social.linkedin"] = update.Social.Linkedin
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"user": userID.String()}

	var doc ProfileDocument
	err := m.Profiles.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, utils.NewFieldError(utils.ErrDuplicate, "handle", "That handle already exists")
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// AddExperience prepends an experience entry to the profile's collection in a
// single update.
func (m *MongoDB) AddExperience(ctx context.Context, userID uuid.UUID, exp models.Experience) (*models.Profile, error) {
	push := bson.M{"$push": bson.M{"experience": bson.M{
		"$each":     []ExperienceEntry{experienceToEntry(exp)},
		"$position": 0,
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ProfileDocument
	err := m.Profiles.FindOneAndUpdate(ctx, bson.M{"user": userID.String()}, push, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// RemoveExperience removes exactly the entry with the given ID. The filter
// matches the entry itself so a missing entry is distinguishable from a
// missing profile.
func (m *MongoDB) RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error) {
	filter := bson.M{"user": userID.String(), "experience._id": entryID.String()}
	pull := bson.M{"$pull": bson.M{"experience": bson.M{"_id": entryID.String()}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ProfileDocument
	err := m.Profiles.FindOneAndUpdate(ctx, filter, pull, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if _, profileErr := m.GetProfileByUser(ctx, userID); profileErr != nil {
			return nil, profileErr
		}
		return nil, utils.NewFieldError(utils.ErrNotFound, "experiencenotfound", "Experience is not found")
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// AddEducation prepends an education entry to the profile's collection in a
// single update.
func (m *MongoDB) AddEducation(ctx context.Context, userID uuid.UUID, edu models.Education) (*models.Profile, error) {
	push := bson.M{"$push": bson.M{"education": bson.M{
		"$each":     []EducationEntry{educationToEntry(edu)},
		"$position": 0,
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ProfileDocument
	err := m.Profiles.FindOneAndUpdate(ctx, bson.M{"user": userID.String()}, push, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// RemoveEducation removes exactly the entry with the given ID.
func (m *MongoDB) RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error) {
	filter := bson.M{"user": userID.String(), "education._id": entryID.String()}
	pull := bson.M{"$pull": bson.M{"education": bson.M{"_id": entryID.String()}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc ProfileDocument
	err := m.Profiles.FindOneAndUpdate(ctx, filter, pull, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		if _, profileErr := m.GetProfileByUser(ctx, userID); profileErr != nil {
			return nil, profileErr
		}
		return nil, utils.NewFieldError(utils.ErrNotFound, "educationnotfound", "Education is not found")
	}
	if err != nil {
		return nil, err
	}

	return documentToProfile(&doc)
}

// DeleteProfileByUser removes the profile owned by a user. A user without a
// profile is not an error: account deletion still proceeds.
func (m *MongoDB) DeleteProfileByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := m.Profiles.DeleteOne(ctx, bson.M{"user": userID.String()})
	return err
}
