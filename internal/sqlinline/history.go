package sqlinline

const QHistoricalRecent = `--sql 5b08ac7e-795f-43e4-82ce-2712a82e4fa4
select id, text, posted_at, reactions, comments, reposts, viral_score, tier
from historical_posts
order by posted_at desc
limit $1;
`
