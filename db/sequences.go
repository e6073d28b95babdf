package db

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-firewatch/types"
)

const sequencesCollection = "sequences"

// ArchiveSequences writes a snapshot of sequences to the 'sequences'
// collection using BulkWriter for efficient non-transactional writes.
// The sequence id doubles as the Firestore document ID, so re-archiving an
// ongoing sequence overwrites its earlier state.
func ArchiveSequences(client *firestore.Client, seqs []types.Sequence) error {
	if len(seqs) == 0 {
		log.Println("No sequences to archive.")
		return nil
	}

	ctx := context.Background()
	bw := client.BulkWriter(ctx)
	collectionRef := client.Collection(sequencesCollection)

	log.Printf("Preparing to archive %d sequences using BulkWriter to collection '%s'...", len(seqs), sequencesCollection)

	archivedCount := 0
	for i := range seqs {
		seq := seqs[i]

		if seq.ID == 0 {
			log.Printf("Warning: Skipping sequence with empty ID: %+v", seq)
			continue
		}
		docRef := collectionRef.Doc(strconv.FormatInt(seq.ID, 10))

		_, err := bw.Set(docRef, seq)
		if err != nil {
			log.Printf("Error enqueueing sequence %d for archive: %v", seq.ID, err)
		} else {
			archivedCount++
		}
	}

	if archivedCount == 0 {
		log.Println("No valid sequences were enqueued for archiving.")
		return nil
	}

	// NOTE: Flush sends any remaining writes and waits for them to complete.
	bw.Flush()

	log.Printf("BulkWriter flushed. Attempted to archive %d sequences.", archivedCount)
	return nil
}

// SequencesBetween retrieves archived sequences whose start time falls in
// [start, end], for the history and export views.
func SequencesBetween(client *firestore.Client, start, end time.Time) ([]types.Sequence, error) {
	ctx := context.Background()
	var out []types.Sequence

	iter := client.Collection(sequencesCollection).
		Where("startedAt", ">=", start.UTC().Format(time.RFC3339)).
		Where("startedAt", "<=", end.UTC().Format(time.RFC3339)).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating sequences collection: %w", err)
		}

		var seq types.Sequence
		if err := doc.DataTo(&seq); err != nil {
			log.Printf("Warning: Error converting document %s to Sequence: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		out = append(out, seq)
	}

	log.Printf("Retrieved %d sequences from the archive.", len(out))
	return out, nil
}

// SaveLabel records an operator verdict on an archived sequence. MergeAll
// creates the document when the archive sweep has not reached it yet, so a
// label can never be lost to archive timing.
func SaveLabel(client *firestore.Client, sequenceID int64, isWildfire bool, labeledBy string) error {
	ctx := context.Background()
	docRef := client.Collection(sequencesCollection).Doc(strconv.FormatInt(sequenceID, 10))

	data := map[string]interface{}{
		"id":         sequenceID,
		"isWildfire": isWildfire,
		"labeledBy":  labeledBy,
		"labeledAt":  time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := docRef.Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to save label for sequence %d: %w", sequenceID, err)
	}
	return nil
}

// ArchivedSequence retrieves a single archived sequence by id. A missing
// document is not an error: the boolean reports presence.
func ArchivedSequence(client *firestore.Client, sequenceID int64) (types.Sequence, bool, error) {
	ctx := context.Background()
	var seq types.Sequence

	docSnap, err := client.Collection(sequencesCollection).Doc(strconv.FormatInt(sequenceID, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return seq, false, nil
		}
		return seq, false, fmt.Errorf("error getting sequence %d: %w", sequenceID, err)
	}

	if err := docSnap.DataTo(&seq); err != nil {
		return seq, false, fmt.Errorf("error converting document %s to Sequence: %w", docSnap.Ref.ID, err)
	}
	return seq, true, nil
}
