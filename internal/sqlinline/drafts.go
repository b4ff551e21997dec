package sqlinline

// Draft inserts are idempotent per (job_id, variant_number): a reclaimed
// task replaying the same variant hits the unique constraint and no-ops.
const QInsertDraft = `--sql ecd77aa3-e685-4a4c-b641-95a955fa3139
insert into drafts (id, job_id, variant_number, agent_name, body, hashtags, voice_fit, meta)
values ($1, $2, $3, $4, $5, $6, $7, $8)
on conflict (job_id, variant_number) do nothing;
`

const QDraftsByJob = `--sql 6d410805-d499-46f8-9e8b-849a5b3c6fb9
select id, job_id, variant_number, agent_name, body, hashtags, voice_fit, meta, created_at
from drafts
where job_id = $1
order by variant_number asc;
`
