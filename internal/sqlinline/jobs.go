package sqlinline

const QInsertJob = `--sql 6a321058-a06a-4faa-9ea9-56480faffa3b
insert into jobs (id, queue_task_id, status, progress, topic, platform, user_id)
values ($1, $2, $3, $4, $5, $6, $7);
`

const QJobSetProcessing = `--sql 89fd1082-3613-48f8-8906-30081bbb42d4
update jobs
set status = 'processing', updated_at = now()
where id = $1;
`

const QJobSetProgress = `--sql aec01330-70d6-4b0c-b531-3e8e4a5791d7
update jobs
set progress = greatest(progress, $2), updated_at = now()
where id = $1;
`

const QJobSetDigest = `--sql 6f68a019-811b-4417-8399-2aca2a503b51
update jobs
set pattern_digest = $2, updated_at = now()
where id = $1;
`

const QJobComplete = `--sql 378af9ae-75aa-4649-8e52-b14c98509ae7
update jobs
set status = 'completed', progress = 100, completed_at = now(), updated_at = now()
where id = $1;
`

const QJobFail = `--sql a137d401-f73d-4920-8270-63222ea9ec9e
update jobs
set status = 'failed', error_message = $2, completed_at = now(), updated_at = now()
where id = $1;
`

const qJobColumns = `id, queue_task_id, status, progress, topic, platform, user_id,
       pattern_digest, error_message, created_at, updated_at, completed_at`

const QJobByID = `--sql 50c291c1-a5ae-4ba6-b148-403be7f5efb1
select ` + qJobColumns + `
from jobs
where id = $1;
`

const QJobByQueueTaskID = `--sql b22b807f-a3c6-4963-8d5c-64a8eb5baae4
select ` + qJobColumns + `
from jobs
where queue_task_id = $1
order by created_at desc
limit 1;
`

const QJobStats = `--sql 6792ee31-38b9-4059-830a-fdcc426ae9fc
select count(*) filter (where status = 'pending'),
       count(*) filter (where status = 'processing'),
       count(*) filter (where status = 'completed'),
       count(*) filter (where status = 'failed')
from jobs;
`
