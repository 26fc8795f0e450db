package homework

// Merge reconciles locally cached or authored records with a freshly
// retrieved remote batch. For each incoming record, after resolving its id:
//
//  1. a local CustomHomework under that id wins outright: the incoming
//     record is discarded (authorship priority);
//  2. a local SyncedHomework is replaced by the incoming content, but keeps
//     the local completion state, which is authoritative until the next
//     explicit sync of the completion itself;
//  3. otherwise the incoming record is inserted as-is.
//
// Records present only locally are retained unchanged. Merging the same
// batch twice against the result of the first merge yields the same set.
func Merge(local Set, remote []SyncedHomework) Set {
	merged := make(Set, len(local)+len(remote))
	for id, record := range local {
		merged[id] = record
	}

	for _, incoming := range remote {
		id := incoming.ID
		if id == "" {
			id = DeriveID(incoming.Subject, incoming.Content, incoming.CreatedByAccount, incoming.DueDate)
			incoming.ID = id
		}

		switch existing := merged[id].(type) {
		case CustomHomework:
			// User-authored record is never shadowed by a re-sync.
			continue
		case SyncedHomework:
			incoming.Done = existing.Done
			merged[id] = incoming
		default:
			merged[id] = incoming
		}
	}

	return merged
}
