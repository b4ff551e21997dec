package sqlinline

const QEnqueueTask = `--sql d2f6da0c-6faa-400c-9498-e61847f77d51
insert into tasks (id, kind, payload, priority, max_attempts)
values ($1, $2, $3, $4, $5);
`

const QClaimTask = `--sql adabe880-754b-476f-9c8d-73e2251b0079
with next_task as (
    select id
    from tasks
    where kind = $1
      and (state = 'waiting' or (state = 'delayed' and run_at <= now()))
    order by priority desc, created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update tasks
    set state = 'active', attempts = attempts + 1, claimed_at = now(), updated_at = now()
    where id in (select id from next_task)
    returning id, payload, attempts, max_attempts
)
select * from claimed;
`

const QCompleteTask = `--sql 2b119dda-2c62-4f86-99ad-30a9a78afcfe
update tasks
set state = 'completed', updated_at = now()
where id = $1;
`

const QFailTaskTerminal = `--sql 82e2f382-9014-4237-a3b3-81dce6076504
update tasks
set state = 'failed', failure_reason = $2, updated_at = now()
where id = $1;
`

const QDelayTaskRetry = `--sql 04b7411f-b47f-47af-b1c2-496721809ba3
update tasks
set state = 'delayed',
    run_at = now() + ($2 * interval '1 second'),
    failure_reason = $3,
    updated_at = now()
where id = $1;
`

const QTaskStatus = `--sql 2e365c62-1186-493e-8bd3-31841447e3e8
select state, payload, attempts, failure_reason, created_at, updated_at
from tasks
where id = $1;
`

const QReclaimStalled = `--sql 4bb5ab90-73f2-415c-a69e-3baa20dc52d5
update tasks
set state = 'waiting', claimed_at = null, updated_at = now()
where state = 'active'
  and claimed_at < now() - ($1 * interval '1 second')
returning id;
`

const QQueueStats = `--sql 6f626fab-6adc-4574-a437-4173ee245255
select state, count(*)
from tasks
group by state;
`

const QPruneTasks = `--sql 0072a8e2-1e71-4d68-b728-6b9d6c0a2ae7
delete from tasks
where id in (
    select id
    from tasks
    where state = $1
    order by updated_at desc
    offset $2
);
`
