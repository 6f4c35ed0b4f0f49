package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/meghashyamc/lexfeat/config"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/discovery"
	"github.com/meghashyamc/lexfeat/services/lexer"
)

const (
	ProgressStatusQueued   = 0
	ProgressStatusStep1    = 10
	ProgressStatusStep2    = 20
	ProgressStatusComplete = 100
	ProgressStatusFailed   = -1

	maxGoRoutinesForFileProcessing = 50
	maxExtractionTime              = 2 * time.Hour
)

var ErrExtractionInProgress = errors.New("feature extraction already in progress")

type Options struct {
	Policy         lexer.FilterPolicy
	StripComments  bool
	DefaultPattern string
	// CheckpointPath receives the corpus-wide frequency map after every run. Empty disables it.
	CheckpointPath string
}

func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := lexer.ParseFilterPolicy(cfg.GetFilterPolicy())
	if err != nil {
		return Options{}, err
	}

	options := Options{
		Policy:         policy,
		StripComments:  cfg.GetStripComments(),
		DefaultPattern: cfg.GetFilePattern(),
	}
	if checkpointPath := cfg.GetCheckpointPath(); checkpointPath != "" {
		options.CheckpointPath = filepath.Join(cfg.GetStoragePath(), checkpointPath)
	}

	return options, nil
}

type Service struct {
	logger  logger.Logger
	indexer Indexer
	store   MetadataStore
	options Options
	buildC  chan buildRequest

	mu      sync.Mutex
	running bool
}

type buildRequest struct {
	rootPath  string
	pattern   string
	requestID string
}

type processedFile struct {
	path       string
	tokenCount int
}

func New(ctx context.Context, logger logger.Logger, indexer Indexer, store MetadataStore, options Options) *Service {
	if options.DefaultPattern == "" {
		options.DefaultPattern = discovery.DefaultPattern
	}

	service := &Service{
		logger:  logger,
		indexer: indexer,
		store:   store,
		options: options,
		buildC:  make(chan buildRequest, 1),
	}

	go service.build(ctx)
	return service
}

// Build queues feature extraction for every file under rootPath matching pattern.
// Only one extraction runs at a time.
func (s *Service) Build(rootPath string, pattern string, requestID string) error {
	if pattern == "" {
		pattern = s.options.DefaultPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warn("request to extract features while extraction is already in progress", "request_id", requestID)
		return ErrExtractionInProgress
	}
	s.running = true

	s.setRequestStatus(requestID, ProgressStatusQueued)

	// This leads to s.buildFeatures being called
	s.buildC <- buildRequest{rootPath: filepath.Clean(rootPath), pattern: pattern, requestID: requestID}
	return nil
}

// GetStatus returns the progress of a request, from 0 to 100, or ProgressStatusFailed.
func (s *Service) GetStatus(requestID string) (int, error) {
	value, err := s.store.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

// GetFrequencies returns the stored frequency map of one processed file.
func (s *Service) GetFrequencies(path string) (lexer.FrequencyMap, error) {
	value, err := s.store.Get(kvdb.FeaturesBucket, filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var frequencies lexer.FrequencyMap
	if err := json.Unmarshal([]byte(value), &frequencies); err != nil {
		s.logger.Error("failed to unmarshal frequencies", "path", path, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal frequencies for %s: %w", path, err)
	}

	return frequencies, nil
}

// CorpusFrequencies merges the frequency maps of every processed file.
func (s *Service) CorpusFrequencies() (lexer.FrequencyMap, error) {
	paths, err := s.store.GetAllKeys(kvdb.FeaturesBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed files: %w", err)
	}

	maps := make([]lexer.FrequencyMap, 0, len(paths))
	for _, path := range paths {
		frequencies, err := s.GetFrequencies(path)
		if err != nil {
			s.logger.Warn("skipping file in corpus", "path", path, "err", err.Error())
			continue
		}
		maps = append(maps, frequencies)
	}

	return lexer.Merge(maps...), nil
}

func (s *Service) build(ctx context.Context) {

	for {
		select {
		case req := <-s.buildC:
			extractionCtx, cancel := context.WithTimeout(ctx, maxExtractionTime)
			status := s.buildFeatures(extractionCtx, req.rootPath, req.pattern, req.requestID)
			cancel()

			// Accept new requests before reporting the final status
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			s.setRequestStatus(req.requestID, status)
		case <-ctx.Done():
			s.logger.Info("feature service stopped", "reason", ctx.Err())
			return
		}
	}
}

// buildFeatures runs one extraction and returns its final status.
func (s *Service) buildFeatures(ctx context.Context, rootPath string, pattern string, requestID string) int {
	s.logger.Info("performing incremental feature extraction", "root", rootPath, "pattern", pattern, "request_id", requestID)
	files := s.discoverModifiedFiles(rootPath, pattern)
	s.logger.Info("discovered modified files", "num_of_files", len(files))

	s.setRequestStatus(requestID, ProgressStatusStep1)

	deletedFiles, err := s.getDeletedFiles()
	if err != nil {
		s.logger.Error("failed to extract features", "request_id", requestID, "err", err.Error())
		return ProgressStatusFailed
	}

	if err := s.removeDeletedFiles(deletedFiles); err != nil {
		s.logger.Error("failed to extract features", "request_id", requestID, "err", err.Error())
		return ProgressStatusFailed
	}

	s.setRequestStatus(requestID, ProgressStatusStep2)

	if err := s.doBuildFeatures(ctx, files, requestID); err != nil {
		s.logger.Error("feature extraction cancelled", "request_id", requestID, "err", err.Error())
		return ProgressStatusFailed
	}

	s.checkpointCorpus()

	return ProgressStatusComplete
}

func (s *Service) doBuildFeatures(ctx context.Context, files []FileInfo, requestID string) error {
	if len(files) == 0 {
		s.logger.Info("no files to process")
		return nil
	}

	indexTime := time.Now().UTC()

	numGoroutines := min(maxGoRoutinesForFileProcessing, len(files))
	filesPerGoroutine := len(files) / numGoroutines

	processedFilesChan := make(chan []processedFile, numGoroutines)
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workWG sync.WaitGroup

	s.logger.Info("starting parallel feature extraction", "goroutines", numGoroutines, "files_per_goroutine", filesPerGoroutine)

	for i := range numGoroutines {
		start := i * filesPerGoroutine
		end := start + filesPerGoroutine

		// The last goroutine takes any remaining files
		if i == numGoroutines-1 {
			end = len(files)
		}

		workWG.Add(1)
		go s.processFilesPortion(workCtx, files[start:end], i, processedFilesChan, &workWG)
	}

	var metadataWG sync.WaitGroup
	metadataWG.Add(1)

	// Recording metadata keeps later runs from reprocessing unchanged files.
	// This goroutine ends when processedFilesChan is closed.
	go s.updateMetadata(indexTime, requestID, len(files), processedFilesChan, &metadataWG)

	go func() {
		workWG.Wait()
		close(processedFilesChan)
	}()

	metadataWG.Wait()

	return ctx.Err()
}

func (s *Service) processFilesPortion(ctx context.Context, filesPortion []FileInfo, goroutineID int, processedFilesChan chan<- []processedFile, wg *sync.WaitGroup) {
	defer wg.Done()
	numOfFiles := len(filesPortion)
	totalProcessedFilesCount := 0

	for i := 0; i < numOfFiles; i += searchdb.IndexingBatchSize {
		select {
		case <-ctx.Done():
			s.logger.Info("goroutine cancelled", "goroutine_id", goroutineID, "reason", ctx.Err())
			return
		default:
		}

		processed := s.processBatch(filesPortion[i:min(i+searchdb.IndexingBatchSize, numOfFiles)], goroutineID)
		totalProcessedFilesCount += len(processed)
		processedFilesChan <- processed

		s.logger.Debug(fmt.Sprintf("goroutine %d processed %d/%d files", goroutineID, totalProcessedFilesCount, numOfFiles))
	}
}

func (s *Service) processBatch(filesInBatch []FileInfo, goroutineID int) []processedFile {

	var documents []*searchdb.Document
	var extracted []*fileFeatures

	for _, file := range filesInBatch {
		features, err := s.extractFeatures(file)
		if err != nil {
			s.logger.Error("error processing file", "path", file.Path, "err", err.Error(), "goroutine_id", goroutineID)
			continue
		}
		documents = append(documents, features.document)
		extracted = append(extracted, features)
	}

	if err := s.indexer.BuildIndex(documents); err != nil {
		s.logger.Error("failed to index batch", "goroutine_id", goroutineID, "err", err.Error())
		return nil
	}

	processed := make([]processedFile, 0, len(extracted))
	for _, features := range extracted {
		if err := s.setFrequencies(features.file.Path, features.frequencies); err != nil {
			continue
		}
		processed = append(processed, processedFile{path: features.file.Path, tokenCount: features.frequencies.Total()})
	}

	return processed
}

func (s *Service) updateMetadata(indexTime time.Time, requestID string, totalFilesCount int, processedFilesChan <-chan []processedFile, wg *sync.WaitGroup) {
	defer wg.Done()
	updatedCount := 0
	seenCount := 0

	for processedFiles := range processedFilesChan {
		for _, file := range processedFiles {
			metadata := kvdb.FileMetadata{
				LastIndexed: indexTime,
				TokenCount:  file.tokenCount,
			}
			if err := s.setFileMetadata(file.path, metadata); err == nil {
				updatedCount++
			}
		}
		seenCount += len(processedFiles)
		s.setRequestStatus(requestID, getProgressPercentage(seenCount, totalFilesCount, ProgressStatusStep2, ProgressStatusComplete-1))
	}

	s.logger.Info("finished updating metadata", "count", fmt.Sprintf("%d/%d", updatedCount, totalFilesCount))
}

func (s *Service) setFrequencies(path string, frequencies lexer.FrequencyMap) error {
	data, err := json.Marshal(frequencies)
	if err != nil {
		s.logger.Error("failed to marshal frequencies", "path", path, "err", err.Error())
		return fmt.Errorf("failed to marshal frequencies for %s: %w", path, err)
	}

	if err := s.store.Set(kvdb.FeaturesBucket, path, string(data)); err != nil {
		s.logger.Error("failed to store frequencies", "path", path, "err", err.Error())
		return err
	}

	return nil
}

func (s *Service) checkpointCorpus() {
	if s.options.CheckpointPath == "" {
		return
	}

	corpus, err := s.CorpusFrequencies()
	if err != nil {
		s.logger.Error("failed to build corpus frequencies", "err", err.Error())
		return
	}

	if err := kvdb.Save(s.logger, s.options.CheckpointPath, corpus); err != nil {
		return
	}
	s.logger.Info("saved corpus checkpoint", "path", s.options.CheckpointPath, "tokens", len(corpus))
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if err := s.store.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)
}
