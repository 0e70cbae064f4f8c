package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"time"

	model "github.com/devanshpratap/KycVault/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const uploadsIndex = "uploads"

// DefinitionFilter narrows GetDocumentDefinitions. Zero fields are ignored.
type DefinitionFilter struct {
	Department   string
	Category     string
	Subcategory  string
	DocumentType string
}

// AddDocumentDefinition saves a new catalog entry.
func (s *KycService) AddDocumentDefinition(def *model.DocumentDefinition) error {
	if def.DocumentType == "" {
		def.DocumentType = model.DocumentTypeRenewal
	}
	if def.DocumentType != model.DocumentTypeOneOff && def.DocumentType != model.DocumentTypeRenewal {
		return fmt.Errorf("unknown document type %q", def.DocumentType)
	}
	if err := s.db.Create(def).Error; err != nil {
		log.Printf("Error saving document definition: %v", err)
		return fmt.Errorf("failed to save document definition: %w", err)
	}
	log.Printf("Document definition %s added successfully", def.Name)
	return nil
}

// GetDocumentDefinitions returns catalog entries matching the filter, oldest
// first so dashboard columns keep a stable order.
func (s *KycService) GetDocumentDefinitions(filter DefinitionFilter) ([]model.DocumentDefinition, error) {
	query := s.db.Order("created_at")
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		query = query.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}

	var definitions []model.DocumentDefinition
	if err := query.Find(&definitions).Error; err != nil {
		log.Printf("Error fetching document definitions: %v", err)
		return nil, fmt.Errorf("failed to fetch document definitions: %w", err)
	}
	return definitions, nil
}

// UpdateDocumentDefinition applies catalog changes, including one-off/renewal
// reclassification.
func (s *KycService) UpdateDocumentDefinition(id string, updates *model.DocumentDefinition) (*model.DocumentDefinition, error) {
	if updates.DocumentType != "" &&
		updates.DocumentType != model.DocumentTypeOneOff &&
		updates.DocumentType != model.DocumentTypeRenewal {
		return nil, fmt.Errorf("unknown document type %q", updates.DocumentType)
	}

	var def model.DocumentDefinition
	if err := s.db.First(&def, "id = ?", id).Error; err != nil {
		log.Printf("Error fetching document definition %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch document definition %s: %w", id, err)
	}

	if err := s.db.Model(&def).Updates(map[string]interface{}{
		"Name":         updates.Name,
		"DocumentType": updates.DocumentType,
		"Department":   updates.Department,
		"Category":     updates.Category,
		"Subcategory":  updates.Subcategory,
	}).Error; err != nil {
		log.Printf("Error updating document definition %s: %v", id, err)
		return nil, fmt.Errorf("failed to update document definition %s: %w", id, err)
	}
	return &def, nil
}

// DeleteDocumentDefinition removes a catalog entry and its uploads.
func (s *KycService) DeleteDocumentDefinition(id string) error {
	if err := s.db.Where("document_definition_id = ?", id).Delete(&model.UploadRecord{}).Error; err != nil {
		log.Printf("Error deleting uploads for definition %s: %v", id, err)
		return fmt.Errorf("failed to delete uploads for definition %s: %w", id, err)
	}
	if err := s.db.Delete(&model.DocumentDefinition{}, "id = ?", id).Error; err != nil {
		log.Printf("Error deleting document definition %s: %v", id, err)
		return fmt.Errorf("failed to delete document definition %s: %w", id, err)
	}
	log.Printf("Document definition %s deleted", id)
	return nil
}

// UploadDocument stores the file in the bucket, records the upload row and
// indexes it for search. Issue/expiry strings are stored as received; the
// status layer interprets them later.
func (s *KycService) UploadDocument(file multipart.File, header *multipart.FileHeader, companyID, documentID, issueDate, expiryDate string) (*model.UploadRecord, error) {
	log.Printf("Starting upload: file=%s size=%d company=%s document=%s", header.Filename, header.Size, companyID, documentID)

	company, err := s.GetCompany(companyID)
	if err != nil {
		return nil, err
	}
	var def model.DocumentDefinition
	if err := s.db.First(&def, "id = ?", documentID).Error; err != nil {
		log.Printf("Error fetching document definition %s: %v", documentID, err)
		return nil, fmt.Errorf("failed to fetch document definition %s: %w", documentID, err)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("ERROR reading file: %v", err)
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("bucket name not configured")
	}

	objectKey := fmt.Sprintf("%s/%s/%d-%s-%s", companyID, documentID, time.Now().Unix(), uuid.NewString()[:8], header.Filename)
	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(header.Header.Get("Content-Type")),
	}
	if _, err := s.s3Client.PutObject(uploadInput); err != nil {
		log.Printf("S3 upload error: %v", err)
		return nil, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	fileURL := fmt.Sprintf("%s/object/public/%s/%s", os.Getenv("SUPABASE_S3_URL"), bucket, objectKey)
	log.Printf("File stored at: %s", fileURL)

	upload := model.UploadRecord{
		CompanyID:            companyID,
		DocumentDefinitionID: documentID,
		FilePath:             objectKey,
		FileURL:              fileURL,
		IssueDate:            issueDate,
		ExpiryDate:           expiryDate,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := s.db.Create(&upload).Error; err != nil {
		log.Printf("ERROR saving upload record: %v", err)
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}
	log.Printf("Upload record saved with ID: %s", upload.ID)

	// Indexing is best effort; a search outage must not fail the upload.
	s.indexUpload(&upload, company.Name, def.Name)

	return &upload, nil
}

// GetUploads returns upload rows, optionally narrowed by company and/or
// document definition, newest first.
func (s *KycService) GetUploads(companyID, documentID string) ([]model.UploadRecord, error) {
	query := s.db.Order("created_at desc")
	if companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if documentID != "" {
		query = query.Where("document_definition_id = ?", documentID)
	}

	var uploads []model.UploadRecord
	if err := query.Find(&uploads).Error; err != nil {
		log.Printf("Error fetching uploads: %v", err)
		return nil, fmt.Errorf("failed to fetch uploads: %w", err)
	}
	return uploads, nil
}

// UploadDetailsUpdate carries the PATCH payload for an upload row. Nil fields
// are left untouched.
type UploadDetailsUpdate struct {
	IssueDate        *string         `json:"issue_date"`
	ExpiryDate       *string         `json:"expiry_date"`
	ExtractedDetails json.RawMessage `json:"extracted_details"`
}

// UpdateUploadDetails applies corrected dates or a corrected extraction blob
// to an existing upload.
func (s *KycService) UpdateUploadDetails(id string, patch UploadDetailsUpdate) (*model.UploadRecord, error) {
	var upload model.UploadRecord
	if err := s.db.First(&upload, "id = ?", id).Error; err != nil {
		log.Printf("Error fetching upload %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch upload %s: %w", id, err)
	}

	updates := map[string]interface{}{"UpdatedAt": time.Now()}
	if patch.IssueDate != nil {
		updates["IssueDate"] = *patch.IssueDate
	}
	if patch.ExpiryDate != nil {
		updates["ExpiryDate"] = *patch.ExpiryDate
	}
	if patch.ExtractedDetails != nil {
		updates["ExtractedDetails"] = datatypes.JSON(patch.ExtractedDetails)
	}

	if err := s.db.Model(&upload).Updates(updates).Error; err != nil {
		log.Printf("Error updating upload %s: %v", id, err)
		return nil, fmt.Errorf("failed to update upload %s: %w", id, err)
	}
	return &upload, nil
}

// DeleteUpload removes the upload row. The stored object and search entry are
// removed best effort: a storage hiccup must not leave the row behind.
func (s *KycService) DeleteUpload(id string) error {
	var upload model.UploadRecord
	if err := s.db.First(&upload, "id = ?", id).Error; err != nil {
		log.Printf("Error fetching upload %s: %v", id, err)
		return fmt.Errorf("failed to fetch upload %s: %w", id, err)
	}

	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket != "" {
		if _, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(upload.FilePath),
		}); err != nil {
			log.Printf("S3 delete error for %s: %v", upload.FilePath, err)
		}
	}

	if s.esClient != nil {
		if res, err := s.esClient.Delete(uploadsIndex, upload.ID); err != nil {
			log.Printf("Elasticsearch delete error for %s: %v", upload.ID, err)
		} else {
			res.Body.Close()
		}
	}

	if err := s.db.Delete(&model.UploadRecord{}, "id = ?", id).Error; err != nil {
		log.Printf("Error deleting upload %s: %v", id, err)
		return fmt.Errorf("failed to delete upload %s: %w", id, err)
	}
	log.Printf("Upload %s deleted", id)
	return nil
}

// GetSignedURL issues a presigned GET link for an upload's stored object.
func (s *KycService) GetSignedURL(id string, expiry time.Duration) (string, error) {
	var upload model.UploadRecord
	if err := s.db.First(&upload, "id = ?", id).Error; err != nil {
		log.Printf("Error fetching upload %s: %v", id, err)
		return "", fmt.Errorf("failed to fetch upload %s: %w", id, err)
	}

	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("bucket name not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(upload.FilePath),
	})
	url, err := req.Presign(expiry)
	if err != nil {
		log.Printf("Presign error for %s: %v", upload.FilePath, err)
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url, nil
}

// indexUpload indexes the upload in Elasticsearch. Skipped when the client is
// not configured; errors are logged and swallowed.
func (s *KycService) indexUpload(upload *model.UploadRecord, companyName, documentName string) {
	if s.esClient == nil {
		log.Println("Elasticsearch client not initialized. Skipping indexing.")
		return
	}

	doc := map[string]interface{}{
		"upload_id":         upload.ID,
		"company_id":        upload.CompanyID,
		"company_name":      companyName,
		"document_id":       upload.DocumentDefinitionID,
		"document_name":     documentName,
		"file_path":         upload.FilePath,
		"issue_date":        upload.IssueDate,
		"expiry_date":       upload.ExpiryDate,
		"extracted_details": string(upload.ExtractedDetails),
		"timestamp":         time.Now().UTC(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("Failed to marshal upload for indexing: %v", err)
		return
	}

	res, err := s.esClient.Index(
		uploadsIndex,
		bytes.NewReader(body),
		s.esClient.Index.WithDocumentID(upload.ID),
		s.esClient.Index.WithContext(context.Background()),
	)
	if err != nil {
		log.Printf("Elasticsearch indexing error: %v", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("Elasticsearch indexing failed: %s", res.String())
		return
	}
	log.Println("Upload successfully indexed in Elasticsearch")
}

// SearchUploads runs a multi_match query over the indexed upload text.
func (s *KycService) SearchUploads(query string) ([]map[string]interface{}, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("elasticsearch client is not initialized")
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"company_name", "document_name", "extracted_details", "file_path"},
			},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(context.Background()),
		s.esClient.Search.WithIndex(uploadsIndex),
		s.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hitsMap, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits structure in search response")
	}
	hitsArray, ok := hitsMap["hits"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits array in search response")
	}

	var uploads []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		uploads = append(uploads, source)
	}
	return uploads, nil
}

// latestUploadsByPair keeps only the newest upload per (document, company)
// pair; the dashboard classifies the current file, not superseded ones.
func latestUploadsByPair(uploads []model.UploadRecord) map[[2]string]*model.UploadRecord {
	latest := make(map[[2]string]*model.UploadRecord)
	for i := range uploads {
		u := &uploads[i]
		key := [2]string{u.DocumentDefinitionID, u.CompanyID}
		if cur, ok := latest[key]; !ok || u.CreatedAt.After(cur.CreatedAt) {
			latest[key] = u
		}
	}
	return latest
}
